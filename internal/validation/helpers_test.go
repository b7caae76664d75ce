package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/ffmpeg"
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/metadata"
)

// fixture holds mutable raw sources that become a View.
type fixture struct {
	container *ffprobe.Container
	audio     *ffprobe.Container
	loudness  ffmpeg.Loudness
}

func loadContainer(t *testing.T, name string) *ffprobe.Container {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "ffprobe", "testdata", name))
	if err != nil {
		t.Fatalf("failed to load test data %s: %v", name, err)
	}
	c, err := ffprobe.Parse(data)
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", name, err)
	}
	return c
}

// compliant returns a fixture every rule passes on.
func compliant(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		container: loadContainer(t, "compliant_720p.json"),
		audio:     loadContainer(t, "audio_extract.json"),
		loudness: ffmpeg.Loudness{
			ffmpeg.InputI:       "-16.02",
			ffmpeg.InputTP:      "-1.43",
			ffmpeg.InputLRA:     "7.30",
			ffmpeg.InputThresh:  "-26.25",
			ffmpeg.TargetOffset: "0.02",
		},
	}
}

func (f *fixture) view() *metadata.View {
	return metadata.NewView(f.container, f.audio, f.loudness)
}

func (f *fixture) video() ffprobe.Stream       { return f.container.Streams[0] }
func (f *fixture) audioStream() ffprobe.Stream { return f.container.Streams[1] }

// ruleByName finds a rule in the default catalog.
func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	return ruleFrom(t, NewCatalog(config.DefaultPolicy()), name)
}

func ruleFrom(t *testing.T, c *Catalog, name string) Rule {
	t.Helper()
	for _, g := range c.Groups() {
		for _, r := range g.Rules {
			if r.Name == name {
				return r
			}
		}
	}
	t.Fatalf("rule %s not in catalog", name)
	return Rule{}
}

func wantStatus(t *testing.T, rule string, got Verdict, want Status) {
	t.Helper()
	if got.Status != want {
		t.Errorf("%s = %v (%s), want %v", rule, got.Status, got.Reason, want)
	}
}
