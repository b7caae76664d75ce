package validation

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/metadata"
)

const (
	// ContainerFormat is the ffprobe format name of a WebM file.
	ContainerFormat = "matroska,webm"
	// EncoderPrefix starts the encoder tag written by libavformat.
	EncoderPrefix = "Lavf"
	// RequiredStreams is the number of streams a file must carry.
	RequiredStreams = 2

	// The bitrate envelope is bit_rate < height*BitrateSlope + BitrateIntercept.
	// It is a linear fit meant to catch grossly oversized encodes only.
	BitrateSlope     = 5000
	BitrateIntercept = 683300
)

// Tag keys that may survive in an encode. Anything else was carried over from
// the source.
var (
	allowedStreamTags = []string{"encoder", "duration"}
	allowedFormatTags = []string{"encoder"}
)

// FormatGroup returns the container-level rules.
func FormatGroup(policy config.Policy) Group {
	return Group{
		Name:        GroupFormat,
		Description: "container layout and metadata",
		Rules: []Rule{
			{
				Name:        "video_stream",
				Description: "video stream is the first stream",
				Check:       streamAtIs(0, ffprobe.CodecVideo, "First"),
			},
			{
				Name:        "audio_stream",
				Description: "audio stream is the second stream",
				Check:       streamAtIs(1, ffprobe.CodecAudio, "Second"),
			},
			{
				Name:        "stream_count",
				Description: "file has exactly two streams",
				Check:       checkStreamCount,
			},
			{
				Name:        "encoder_name",
				Description: "encoder is FFmpeg",
				Check:       checkEncoderName,
			},
			{
				Name:        "encoder_version",
				Description: "FFmpeg build is not out of date",
				Check:       encoderVersionAtLeast(policy.MinEncoderVersion),
			},
			{
				Name:        "file_format",
				Description: "container format is WebM",
				Check:       checkFileFormat,
			},
			{
				Name:        "filesize",
				Description: "overall bitrate is within the size envelope",
				Check:       checkFilesize,
			},
			{
				Name:        "metadata_leak",
				Description: "no source metadata was carried over",
				Check:       checkMetadataLeak,
			},
			{
				Name:        "chapters",
				Description: "no chapter data was carried over",
				Check:       checkChapters,
			},
		},
	}
}

func streamAtIs(pos int, role ffprobe.CodecType, ordinal string) func(*metadata.View) Verdict {
	return func(v *metadata.View) Verdict {
		s, ok := v.StreamAt(pos)
		if !ok {
			return Errorf("no stream at index %d (%d streams)", pos, v.StreamCount())
		}
		if s.CodecType != role {
			return Fail("%s stream is not %s, found %s", ordinal, role, shown(string(s.CodecType)))
		}
		return Pass()
	}
}

func checkStreamCount(v *metadata.View) Verdict {
	if n := v.StreamCount(); n != RequiredStreams {
		return Fail("found %d streams, expected %d", n, RequiredStreams)
	}
	return Pass()
}

func checkEncoderName(v *metadata.View) Verdict {
	tags := v.FormatTags()
	if tags == nil {
		return Errorf("format tags are missing")
	}
	encoders := tags.Lookup("encoder")
	if len(encoders) == 0 {
		return Passf("no encoder tag")
	}
	for _, tag := range encoders {
		if !strings.HasPrefix(tag.Value, EncoderPrefix) {
			return Fail("Incorrect encoder %q", tag.Value)
		}
	}
	return Pass()
}

// EncoderVersion returns the semver form of the libavformat version in an
// encoder tag, e.g. "Lavf61.7.100" becomes "v61.7.100".
func EncoderVersion(tag string) (string, error) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(tag), EncoderPrefix)
	if !semver.IsValid(v) {
		return "", fmt.Errorf("encoder %q has no dotted release version", tag)
	}
	return v, nil
}

func encoderVersionAtLeast(minimum string) func(*metadata.View) Verdict {
	want := "v" + minimum
	return func(v *metadata.View) Verdict {
		if !semver.IsValid(want) {
			return Errorf("minimum encoder version %q is not a dotted release version", minimum)
		}
		tags := v.FormatTags()
		if tags == nil {
			return Errorf("format tags are missing")
		}
		encoders := tags.Lookup("encoder")
		if len(encoders) == 0 {
			return Passf("no encoder tag")
		}
		for _, tag := range encoders {
			got, err := EncoderVersion(tag.Value)
			if err != nil {
				return Errorf("%v", err)
			}
			if semver.Compare(got, want) < 0 {
				return Fail("Build is out of date: %s < %s", strings.TrimPrefix(got, "v"), minimum)
			}
		}
		return Pass()
	}
}

func checkFileFormat(v *metadata.View) Verdict {
	name := v.Format("format_name")
	if name == "" {
		return Errorf("format_name is missing")
	}
	return equals("format_name", name, ContainerFormat)
}

// BitrateEnvelope returns the exclusive upper bitrate bound for a height.
func BitrateEnvelope(height int64) int64 {
	return height*BitrateSlope + BitrateIntercept
}

func checkFilesize(v *metadata.View) Verdict {
	bitRate, err := parseInt("bit_rate", v.Format("bit_rate"))
	if err != nil {
		return Errorf("%v", err)
	}
	rawHeight, err := streamField(v, ffprobe.CodecVideo, "height")
	if err != nil {
		return Errorf("%v", err)
	}
	height, err := parseInt("height", rawHeight)
	if err != nil {
		return Errorf("%v", err)
	}
	if limit := BitrateEnvelope(height); bitRate >= limit {
		return Fail("bit_rate %d exceeds the %d limit for %dp", bitRate, limit, height)
	}
	return Pass()
}

func checkMetadataLeak(v *metadata.View) Verdict {
	formatTags := v.FormatTags()
	if formatTags == nil {
		return Errorf("format tags are missing")
	}

	var leaked []string
	for i, s := range v.Streams() {
		// A stream without a tags object carries nothing over.
		for _, tag := range s.Tags.Except(allowedStreamTags...) {
			leaked = append(leaked, fmt.Sprintf("stream %d %s", i, tag.Key))
		}
	}
	for _, tag := range formatTags.Except(allowedFormatTags...) {
		leaked = append(leaked, "format "+tag.Key)
	}

	if len(leaked) > 0 {
		return Fail("Extraneous source file metadata: %s", strings.Join(leaked, ", "))
	}
	return Pass()
}

func checkChapters(v *metadata.View) Verdict {
	if n := len(v.Chapters()); n > 0 {
		return Fail("Extraneous menu data: %d chapters", n)
	}
	return Pass()
}
