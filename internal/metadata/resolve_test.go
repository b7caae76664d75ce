package metadata

import (
	"testing"

	"github.com/five82/webmverify/internal/ffprobe"
)

func streams(types ...ffprobe.CodecType) *ffprobe.Container {
	c := &ffprobe.Container{}
	for i, ct := range types {
		c.Streams = append(c.Streams, ffprobe.Stream{Index: i, CodecType: ct})
	}
	return c
}

func TestResolveStreamIndex(t *testing.T) {
	tests := []struct {
		name      string
		container *ffprobe.Container
		wantVideo int
		wantAudio int
	}{
		{"video then audio", streams("video", "audio"), 0, 1},
		{"audio then video", streams("audio", "video"), 1, 0},
		{"subtitle first", streams("subtitle", "video", "audio"), 1, 2},
		{"two videos", streams("video", "video", "audio"), 0, 2},
		{"no audio", streams("video"), 0, 0},
		{"no video", streams("audio", "audio"), 0, 0},
		{"no streams", streams(), 0, 0},
		{"nil container", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStreamIndex(tt.container, ffprobe.CodecVideo); got != tt.wantVideo {
				t.Errorf("video index = %d, want %d", got, tt.wantVideo)
			}
			if got := ResolveStreamIndex(tt.container, ffprobe.CodecAudio); got != tt.wantAudio {
				t.Errorf("audio index = %d, want %d", got, tt.wantAudio)
			}
		})
	}
}

func TestResolveStreamsStable(t *testing.T) {
	c := streams("data", "audio", "video")
	first := ResolveStreams(c)
	for range 5 {
		if got := ResolveStreams(c); got != first {
			t.Fatalf("ResolveStreams() = %+v, then %+v", first, got)
		}
	}
	if first != (StreamIndex{Video: 2, Audio: 1}) {
		t.Errorf("ResolveStreams() = %+v", first)
	}
}
