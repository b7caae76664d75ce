package metadata

import "github.com/five82/webmverify/internal/ffprobe"

// StreamIndex holds the resolved stream positions of each role.
type StreamIndex struct {
	Video int
	Audio int
}

// ResolveStreamIndex returns the position of the first stream whose codec
// type is role, or 0 when no stream has that role. A 0 fallback may point at a
// stream of the wrong role; the stream order rules report that case.
func ResolveStreamIndex(c *ffprobe.Container, role ffprobe.CodecType) int {
	if c == nil {
		return 0
	}
	for i, s := range c.Streams {
		if s.CodecType == role {
			return i
		}
	}
	return 0
}

// ResolveStreams resolves both the video and the audio role.
func ResolveStreams(c *ffprobe.Container) StreamIndex {
	return StreamIndex{
		Video: ResolveStreamIndex(c, ffprobe.CodecVideo),
		Audio: ResolveStreamIndex(c, ffprobe.CodecAudio),
	}
}
