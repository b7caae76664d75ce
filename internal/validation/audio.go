package validation

import (
	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/ffmpeg"
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/metadata"
	"github.com/five82/webmverify/internal/util"
)

const (
	// AudioCodec is the required audio codec.
	AudioCodec = "opus"
	// SampleRate is the required sampling rate in Hz.
	SampleRate = 48000
	// Channels is the required channel count.
	Channels = 2
	// ChannelLayout is the required channel layout.
	ChannelLayout = "stereo"

	// Integrated loudness must fall in [LoudnessMin, LoudnessMax] LUFS.
	LoudnessMin = -16.25
	LoudnessMax = -15.75
)

// BitrateBand is an inclusive audio bitrate range in bits per second.
type BitrateBand struct {
	Min, Max int64
}

// Contains reports whether bps lies in the band.
func (b BitrateBand) Contains(bps int64) bool {
	return bps >= b.Min && bps <= b.Max
}

// AudioBitrateBands are the accepted audio-only bitrates: 192 kbps and
// 320 kbps targets with room for libopus VBR variance.
var AudioBitrateBands = []BitrateBand{
	{Min: 167000, Max: 217000},
	{Min: 295000, Max: 345000},
}

// AudioGroup returns the rules evaluated against the resolved audio stream,
// the audio-only extract and the loudness measurement.
func AudioGroup(policy config.Policy) Group {
	return Group{
		Name:        GroupAudio,
		Description: "audio stream encoding and loudness",
		Rules: []Rule{
			{
				Name:        "audio_codec",
				Description: "audio codec is Opus",
				Check:       audioFieldEquals("codec_name", AudioCodec),
			},
			{
				Name:        "loudness_i",
				Description: "integrated loudness is near the -16 LUFS target",
				Check:       checkLoudnessI,
			},
			{
				Name:        "loudness_tp",
				Description: "true peak is below the ceiling",
				Check:       truePeakAtMost(policy.TruePeakMax),
			},
			{
				Name:        "audio_bitrate",
				Description: "audio bitrate is near 192 kbps or 320 kbps",
				Check:       checkAudioBitrate,
			},
			{
				Name:        "sample_rate",
				Description: "sampling rate is 48 kHz",
				Check:       audioIntEquals("sample_rate", SampleRate),
			},
			{
				Name:        "channels",
				Description: "audio has two channels",
				Check:       audioIntEquals("channels", Channels),
			},
			{
				Name:        "channel_layout",
				Description: "audio layout is stereo",
				Check:       audioFieldEquals("channel_layout", ChannelLayout),
			},
		},
	}
}

func checkLoudnessI(v *metadata.View) Verdict {
	i, err := v.LoudnessFloat(ffmpeg.InputI)
	if err != nil {
		return Errorf("%v", err)
	}
	if !(i >= LoudnessMin && i <= LoudnessMax) {
		return Fail("integrated loudness %.2f LUFS outside [%.2f, %.2f]", i, LoudnessMin, LoudnessMax)
	}
	return Pass()
}

func truePeakAtMost(ceiling float64) func(*metadata.View) Verdict {
	return func(v *metadata.View) Verdict {
		tp, err := v.LoudnessFloat(ffmpeg.InputTP)
		if err != nil {
			return Errorf("%v", err)
		}
		if !(tp <= ceiling) {
			return Fail("true peak %.2f dBTP above %.2f", tp, ceiling)
		}
		return Pass()
	}
}

func checkAudioBitrate(v *metadata.View) Verdict {
	bps, err := parseInt("audio bit_rate", v.AudioFormat("bit_rate"))
	if err != nil {
		return Errorf("%v", err)
	}
	for _, band := range AudioBitrateBands {
		if band.Contains(bps) {
			return Pass()
		}
	}
	return Fail("audio bitrate %s (%d) outside the 192 kbps and 320 kbps bands",
		util.FormatBitrate(bps), bps)
}

func audioIntEquals(name string, want int64) func(*metadata.View) Verdict {
	return func(v *metadata.View) Verdict {
		raw, err := streamField(v, ffprobe.CodecAudio, name)
		if err != nil {
			return Errorf("%v", err)
		}
		got, err := parseInt(name, raw)
		if err != nil {
			return Errorf("%v", err)
		}
		if got != want {
			return Fail("%s is %d, expected %d", name, got, want)
		}
		return Pass()
	}
}

func audioFieldEquals(name, want string) func(*metadata.View) Verdict {
	return func(v *metadata.View) Verdict {
		got, err := streamField(v, ffprobe.CodecAudio, name)
		if err != nil {
			return Errorf("%v", err)
		}
		return equals(name, got, want)
	}
}
