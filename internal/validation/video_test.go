package validation

import "testing"

func TestFramerate(t *testing.T) {
	tests := []struct {
		rate string
		want Status
	}{
		{"30000/1001", StatusPass},
		{"24000/1001", StatusPass},
		{"24/1", StatusPass},
		{"30/1", StatusPass},
		{"2997/125", StatusPass},
		{"19001/634", StatusPass},
		{"60000/1001", StatusFail},
		{"25/1", StatusFail},
		{"24000/1000", StatusFail},
		{"", StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			f := compliant(t)
			setOrDelete(f.video().Fields, "avg_frame_rate", tt.rate)
			wantStatus(t, "framerate", ruleByName(t, "framerate").Evaluate(f.view()), tt.want)
		})
	}
}

func TestColorFields(t *testing.T) {
	for _, field := range []string{"color_space", "color_transfer", "color_primaries"} {
		tests := []struct {
			value string
			want  Status
		}{
			{"bt709", StatusPass},
			{"smpte170m", StatusPass},
			{"bt470bg", StatusPass},
			{"bt2020nc", StatusFail},
			{"unknown", StatusFail},
			{"", StatusFail},
		}

		for _, tt := range tests {
			t.Run(field+"="+tt.value, func(t *testing.T) {
				f := compliant(t)
				setOrDelete(f.video().Fields, field, tt.value)
				wantStatus(t, field, ruleByName(t, field).Evaluate(f.view()), tt.want)
			})
		}
	}
}

func TestColorChecksAreIndependent(t *testing.T) {
	f := compliant(t)
	f.video().Fields["color_transfer"] = "smpte2084"
	v := f.view()

	wantStatus(t, "color_space", ruleByName(t, "color_space").Evaluate(v), StatusPass)
	wantStatus(t, "color_transfer", ruleByName(t, "color_transfer").Evaluate(v), StatusFail)
	wantStatus(t, "color_primaries", ruleByName(t, "color_primaries").Evaluate(v), StatusPass)
}

func TestVideoCodecAndPixFmt(t *testing.T) {
	f := compliant(t)
	f.video().Fields["codec_name"] = "av1"
	f.video().Fields["pix_fmt"] = "yuv420p10le"
	v := f.view()

	wantStatus(t, "video_codec", ruleByName(t, "video_codec").Evaluate(v), StatusFail)
	wantStatus(t, "pix_fmt", ruleByName(t, "pix_fmt").Evaluate(v), StatusFail)
}

func TestVideoRulesUseResolvedStream(t *testing.T) {
	f := compliant(t)
	f.container.Streams[0], f.container.Streams[1] = f.container.Streams[1], f.container.Streams[0]
	v := f.view()

	wantStatus(t, "video_codec", ruleByName(t, "video_codec").Evaluate(v), StatusPass)
	wantStatus(t, "audio_codec", ruleByName(t, "audio_codec").Evaluate(v), StatusPass)
	wantStatus(t, "video_stream", ruleByName(t, "video_stream").Evaluate(v), StatusFail)
}

func TestVideoRulesWithoutStreams(t *testing.T) {
	f := compliant(t)
	f.container.Streams = nil
	v := f.view()

	for _, name := range VideoGroup().RuleNames() {
		got := ruleByName(t, name).Evaluate(v)
		wantStatus(t, name, got, StatusError)
		if got.Reason != "no video stream" {
			t.Errorf("%s reason = %q", name, got.Reason)
		}
	}
	wantStatus(t, "filesize", ruleByName(t, "filesize").Evaluate(v), StatusError)
}

func TestVideoRulesReadFallbackStream(t *testing.T) {
	f := compliant(t)
	f.container.Streams = f.container.Streams[1:]
	v := f.view()

	// With no video stream the resolver falls back to index 0, the audio
	// stream, so the checks fail on its values instead of erroring.
	wantStatus(t, "video_codec", ruleByName(t, "video_codec").Evaluate(v), StatusFail)
	wantStatus(t, "pix_fmt", ruleByName(t, "pix_fmt").Evaluate(v), StatusFail)
}
