package metadata

import (
	"log/slog"

	"github.com/five82/webmverify/internal/ffmpeg"
	"github.com/five82/webmverify/internal/ffprobe"
)

// View is the read-only query surface rules evaluate against. Every accessor
// returns "" for a missing optional value instead of failing.
type View struct {
	container *ffprobe.Container
	audio     *ffprobe.Container
	loudness  ffmpeg.Loudness
	index     StreamIndex
}

// NewView wraps the raw sources and resolves stream roles once. Nil sources
// behave as empty ones.
func NewView(container, audio *ffprobe.Container, loudness ffmpeg.Loudness) *View {
	if container == nil {
		container = &ffprobe.Container{}
	}
	if audio == nil {
		audio = &ffprobe.Container{}
	}
	return &View{
		container: container,
		audio:     audio,
		loudness:  loudness,
		index:     ResolveStreams(container),
	}
}

// Index returns the resolved stream roles.
func (v *View) Index() StreamIndex {
	return v.index
}

func (v *View) roleIndex(role ffprobe.CodecType) int {
	if role == ffprobe.CodecAudio {
		return v.index.Audio
	}
	return v.index.Video
}

// Field returns a field of the stream resolved for role.
func (v *View) Field(role ffprobe.CodecType, name string) string {
	s, ok := v.StreamAt(v.roleIndex(role))
	if !ok {
		return ""
	}
	return s.Field(name)
}

// Format returns a container format field.
func (v *View) Format(name string) string {
	return v.container.Format.Field(name)
}

// AudioFormat returns a format field of the audio-only extract.
func (v *View) AudioFormat(name string) string {
	return v.audio.Format.Field(name)
}

// Loudness returns a loudness value as printed by ffmpeg.
func (v *View) Loudness(name string) string {
	return v.loudness.Get(name)
}

// LoudnessFloat parses a loudness value.
func (v *View) LoudnessFloat(name string) (float64, error) {
	return v.loudness.Float(name)
}

// Streams returns the container's streams in file order. Callers must not
// modify the result.
func (v *View) Streams() []ffprobe.Stream {
	return v.container.Streams
}

// StreamCount returns the number of streams.
func (v *View) StreamCount() int {
	return len(v.container.Streams)
}

// StreamAt returns the stream at position i.
func (v *View) StreamAt(i int) (ffprobe.Stream, bool) {
	if i < 0 || i >= len(v.container.Streams) {
		return ffprobe.Stream{}, false
	}
	return v.container.Streams[i], true
}

// FormatTags returns the container tags, nil when absent.
func (v *View) FormatTags() *ffprobe.Tags {
	return v.container.Format.Tags
}

// Chapters returns the chapter markers.
func (v *View) Chapters() []ffprobe.Chapter {
	return v.container.Chapters
}

// Attrs summarizes the view for debug logging.
func (v *View) Attrs() []slog.Attr {
	video := ffprobe.CodecVideo
	audio := ffprobe.CodecAudio
	return []slog.Attr{
		slog.Group("streams",
			slog.Int("count", v.StreamCount()),
			slog.Int("video_index", v.index.Video),
			slog.Int("audio_index", v.index.Audio),
			slog.String("video_type", v.Field(video, "codec_type")),
			slog.String("audio_type", v.Field(audio, "codec_type")),
		),
		slog.Group("format",
			slog.String("format_name", v.Format("format_name")),
			slog.String("bit_rate", v.Format("bit_rate")),
			slog.Int("chapters", len(v.Chapters())),
		),
		slog.Group("video",
			slog.String("codec", v.Field(video, "codec_name")),
			slog.String("pix_fmt", v.Field(video, "pix_fmt")),
			slog.String("color_space", v.Field(video, "color_space")),
			slog.String("color_transfer", v.Field(video, "color_transfer")),
			slog.String("color_primaries", v.Field(video, "color_primaries")),
			slog.String("avg_frame_rate", v.Field(video, "avg_frame_rate")),
			slog.String("height", v.Field(video, "height")),
		),
		slog.Group("audio",
			slog.String("codec", v.Field(audio, "codec_name")),
			slog.String("bit_rate", v.AudioFormat("bit_rate")),
			slog.String("sample_rate", v.Field(audio, "sample_rate")),
			slog.String("channels", v.Field(audio, "channels")),
			slog.String("channel_layout", v.Field(audio, "channel_layout")),
		),
		slog.Group("loudness",
			slog.String(ffmpeg.InputI, v.Loudness(ffmpeg.InputI)),
			slog.String(ffmpeg.InputTP, v.Loudness(ffmpeg.InputTP)),
			slog.String(ffmpeg.InputLRA, v.Loudness(ffmpeg.InputLRA)),
			slog.String(ffmpeg.InputThresh, v.Loudness(ffmpeg.InputThresh)),
			slog.String(ffmpeg.TargetOffset, v.Loudness(ffmpeg.TargetOffset)),
		),
	}
}
