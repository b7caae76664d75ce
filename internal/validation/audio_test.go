package validation

import (
	"fmt"
	"testing"

	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/ffmpeg"
)

func TestLoudnessI(t *testing.T) {
	tests := []struct {
		value string
		want  Status
	}{
		{"-16.0", StatusPass},
		{"-16.00", StatusPass},
		{"-16.25", StatusPass},
		{"-15.75", StatusPass},
		{"-16.26", StatusFail},
		{"-15.74", StatusFail},
		{"-23.0", StatusFail},
		{"-inf", StatusFail},
		{"nan", StatusError},
		{"NaN", StatusError},
		{"", StatusError},
		{"loud", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			f := compliant(t)
			if tt.value == "" {
				delete(f.loudness, ffmpeg.InputI)
			} else {
				f.loudness[ffmpeg.InputI] = tt.value
			}
			wantStatus(t, "loudness_i", ruleByName(t, "loudness_i").Evaluate(f.view()), tt.want)
		})
	}
}

func TestLoudnessTP(t *testing.T) {
	tests := []struct {
		value   string
		ceiling float64
		want    Status
	}{
		{"-1.43", -1.0, StatusPass},
		{"-1.00", -1.0, StatusPass},
		{"-0.99", -1.0, StatusFail},
		{"-0.70", -1.0, StatusFail},
		{"-0.70", -0.5, StatusPass},
		{"-0.40", -0.5, StatusFail},
		{"n/a", -1.0, StatusError},
		{"nan", -1.0, StatusError},
		{"nan", -0.5, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			f := compliant(t)
			f.loudness[ffmpeg.InputTP] = tt.value
			policy := config.DefaultPolicy()
			policy.TruePeakMax = tt.ceiling
			rule := ruleFrom(t, NewCatalog(policy), "loudness_tp")
			wantStatus(t, fmt.Sprintf("loudness_tp(%.1f)", tt.ceiling), rule.Evaluate(f.view()), tt.want)
		})
	}
}

func TestAudioBitrate(t *testing.T) {
	tests := []struct {
		value string
		want  Status
	}{
		{"192000", StatusPass},
		{"167000", StatusPass},
		{"217000", StatusPass},
		{"320000", StatusPass},
		{"295000", StatusPass},
		{"345000", StatusPass},
		{"166999", StatusFail},
		{"217001", StatusFail},
		{"250000", StatusFail},
		{"345001", StatusFail},
		{"", StatusError},
		{"N/A", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			f := compliant(t)
			setOrDelete(f.audio.Format.Fields, "bit_rate", tt.value)
			wantStatus(t, "audio_bitrate", ruleByName(t, "audio_bitrate").Evaluate(f.view()), tt.want)
		})
	}
}

func TestAudioBitrateIgnoresOverallBitrate(t *testing.T) {
	f := compliant(t)
	f.container.Format.Fields["bit_rate"] = "192000"
	f.audio.Format.Fields["bit_rate"] = "96000"
	wantStatus(t, "audio_bitrate", ruleByName(t, "audio_bitrate").Evaluate(f.view()), StatusFail)
}

func TestAudioStreamFields(t *testing.T) {
	tests := []struct {
		rule  string
		field string
		value string
		want  Status
	}{
		{"audio_codec", "codec_name", "vorbis", StatusFail},
		{"sample_rate", "sample_rate", "44100", StatusFail},
		{"sample_rate", "sample_rate", "", StatusError},
		{"channels", "channels", "6", StatusFail},
		{"channels", "channels", "two", StatusError},
		{"channel_layout", "channel_layout", "5.1(side)", StatusFail},
		{"channel_layout", "channel_layout", "", StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"="+tt.value, func(t *testing.T) {
			f := compliant(t)
			setOrDelete(f.audioStream().Fields, tt.field, tt.value)
			wantStatus(t, tt.rule, ruleByName(t, tt.rule).Evaluate(f.view()), tt.want)
		})
	}
}

func TestBitrateBandContains(t *testing.T) {
	b := BitrateBand{Min: 10, Max: 20}
	if !b.Contains(10) || !b.Contains(20) || b.Contains(9) || b.Contains(21) {
		t.Errorf("BitrateBand bounds should be inclusive")
	}
}

func TestAudioRulesWithoutStreams(t *testing.T) {
	f := compliant(t)
	f.container.Streams = nil
	v := f.view()

	for _, name := range []string{"audio_codec", "sample_rate", "channels", "channel_layout"} {
		got := ruleByName(t, name).Evaluate(v)
		wantStatus(t, name, got, StatusError)
		if got.Reason != "no audio stream" {
			t.Errorf("%s reason = %q", name, got.Reason)
		}
	}
}
