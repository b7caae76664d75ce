// Package metadata obtains the raw probe, audio-extract and loudness data for
// a file and exposes it to rules through a read-only View.
package metadata

import (
	"context"
	"log/slog"

	"github.com/five82/webmverify/internal/ffmpeg"
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/util"
)

// Provider supplies the three raw data sources for one file.
type Provider interface {
	// Container returns the stream, format and chapter descriptor.
	Container(ctx context.Context, path string) (*ffprobe.Container, error)
	// AudioExtract returns the descriptor of an audio-only re-mux of path.
	AudioExtract(ctx context.Context, path string) (*ffprobe.Container, error)
	// Loudness returns the loudnorm measurement of path.
	Loudness(ctx context.Context, path string) (ffmpeg.Loudness, error)
}

// FFProvider implements Provider with the ffprobe and ffmpeg binaries.
type FFProvider struct {
	// TempDir is where audio extracts are written. Empty means the system
	// temp directory.
	TempDir string
	Logger  *slog.Logger
}

// NewFFProvider returns a provider writing temporaries under tempDir.
func NewFFProvider(tempDir string, logger *slog.Logger) *FFProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FFProvider{TempDir: tempDir, Logger: logger}
}

// Container probes path.
func (p *FFProvider) Container(ctx context.Context, path string) (*ffprobe.Container, error) {
	p.Logger.Debug("probing container", "file", path)
	return ffprobe.Probe(ctx, path)
}

// AudioExtract copies the audio stream of path into a private Ogg file,
// probes it and removes it again. The temp directory is removed on every
// return path.
func (p *FFProvider) AudioExtract(ctx context.Context, path string) (*ffprobe.Container, error) {
	dir, err := util.CreateTempDir(p.TempDir, "webmverify")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := dir.Cleanup(); err != nil {
			p.Logger.Warn("failed to remove audio extract", "dir", dir.Path(), "error", err)
		}
	}()

	out := dir.Join(util.GetFileStem(path) + ".ogg")
	p.Logger.Debug("extracting audio", "file", path, "output", out)
	if err := ffmpeg.ExtractAudio(ctx, path, out); err != nil {
		return nil, err
	}
	return ffprobe.Probe(ctx, out)
}

// Loudness runs the loudnorm measurement pass over path.
func (p *FFProvider) Loudness(ctx context.Context, path string) (ffmpeg.Loudness, error) {
	p.Logger.Debug("measuring loudness", "file", path)
	return ffmpeg.MeasureLoudness(ctx, path)
}

// Load obtains every source for path from p and builds the View. Sources are
// fetched in order and the first failure is returned.
func Load(ctx context.Context, p Provider, path string) (*View, error) {
	container, err := p.Container(ctx, path)
	if err != nil {
		return nil, err
	}
	audio, err := p.AudioExtract(ctx, path)
	if err != nil {
		return nil, err
	}
	loudness, err := p.Loudness(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewView(container, audio, loudness), nil
}
