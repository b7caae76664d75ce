package validation

import (
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/metadata"
)

const (
	// VideoCodec is the required video codec.
	VideoCodec = "vp9"
	// PixelFormat is the required pixel format.
	PixelFormat = "yuv420p"
)

// ColorValues are the accepted color_space, color_transfer and
// color_primaries values. Encoders omit these fields when the colorspace was
// never specified, which fails the check.
var ColorValues = []string{"bt709", "smpte170m", "bt470bg"}

// FrameRates are the accepted avg_frame_rate values: the 23.976, 24, 29.97 and
// 30 fps variants muxers report. Motion-interpolated rates are rejected.
var FrameRates = []string{
	"24000/1001",
	"2997/125",
	"23976/1000",
	"24/1",
	"30000/1001",
	"19001/634",
	"1990/83",
	"2997/100",
	"30/1",
}

// VideoGroup returns the rules evaluated against the resolved video stream.
func VideoGroup() Group {
	return Group{
		Name:        GroupVideo,
		Description: "video stream encoding",
		Rules: []Rule{
			{
				Name:        "video_codec",
				Description: "video codec is VP9",
				Check:       videoFieldEquals("codec_name", VideoCodec),
			},
			{
				Name:        "pix_fmt",
				Description: "pixel format is yuv420p",
				Check:       videoFieldEquals("pix_fmt", PixelFormat),
			},
			{
				Name:        "color_space",
				Description: "color space is an accepted value",
				Check:       videoFieldOneOf("color_space", ColorValues),
			},
			{
				Name:        "color_transfer",
				Description: "color transfer is an accepted value",
				Check:       videoFieldOneOf("color_transfer", ColorValues),
			},
			{
				Name:        "color_primaries",
				Description: "color primaries is an accepted value",
				Check:       videoFieldOneOf("color_primaries", ColorValues),
			},
			{
				Name:        "framerate",
				Description: "average framerate is 23.976, 24, 29.97 or 30 fps",
				Check:       videoFieldOneOf("avg_frame_rate", FrameRates),
			},
		},
	}
}

func videoFieldEquals(name, want string) func(*metadata.View) Verdict {
	return func(v *metadata.View) Verdict {
		got, err := streamField(v, ffprobe.CodecVideo, name)
		if err != nil {
			return Errorf("%v", err)
		}
		return equals(name, got, want)
	}
}

func videoFieldOneOf(name string, allowed []string) func(*metadata.View) Verdict {
	return func(v *metadata.View) Verdict {
		got, err := streamField(v, ffprobe.CodecVideo, name)
		if err != nil {
			return Errorf("%v", err)
		}
		return oneOf(name, got, allowed)
	}
}
