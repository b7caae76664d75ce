package webmverify

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/five82/webmverify/internal/errors"
	"github.com/five82/webmverify/internal/ffmpeg"
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/reporter"
)

type stubProvider struct {
	container *ffprobe.Container
	audio     *ffprobe.Container
	probed    []string
}

func newStubProvider(t *testing.T) *stubProvider {
	t.Helper()
	load := func(name string) *ffprobe.Container {
		data, err := os.ReadFile(filepath.Join("internal", "ffprobe", "testdata", name))
		if err != nil {
			t.Fatalf("failed to load test data %s: %v", name, err)
		}
		c, err := ffprobe.Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	return &stubProvider{
		container: load("compliant_720p.json"),
		audio:     load("audio_extract.json"),
	}
}

func (s *stubProvider) Container(_ context.Context, path string) (*ffprobe.Container, error) {
	s.probed = append(s.probed, path)
	return s.container, nil
}

func (s *stubProvider) AudioExtract(context.Context, string) (*ffprobe.Container, error) {
	return s.audio, nil
}

func (s *stubProvider) Loudness(context.Context, string) (ffmpeg.Loudness, error) {
	return ffmpeg.Loudness{ffmpeg.InputI: "-16.02", ffmpeg.InputTP: "-1.43"}, nil
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if want := []string{"format", "video", "audio"}; !slices.Equal(v.Groups(), want) {
		t.Errorf("Groups() = %v, want %v", v.Groups(), want)
	}

	v, err = New(WithGroups("AUDIO", "format"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if want := []string{"format", "audio"}; !slices.Equal(v.Groups(), want) {
		t.Errorf("Groups() = %v, want %v", v.Groups(), want)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"unknown group", []Option{WithGroups("subtitles")}},
		{"negative jobs", []Option{WithJobs(-1)}},
		{"bad encoder version", []Option{WithPolicy(Policy{MinEncoderVersion: "sixty", TruePeakMax: -1})}},
		{"positive true peak", []Option{WithPolicy(Policy{MinEncoderVersion: "61.7.100", TruePeakMax: 1})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if !errors.IsKind(err, errors.KindConfig) {
				t.Errorf("New() error = %v, want config error", err)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "theme.webm")
	stub := newStubProvider(t)

	v, err := New(WithProvider(stub))
	if err != nil {
		t.Fatal(err)
	}
	report, err := v.Verify(context.Background(), path)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !report.Passed() {
		t.Errorf("report did not pass: %+v", report.Groups)
	}
	if len(stub.probed) != 1 || stub.probed[0] != path {
		t.Errorf("probed = %v", stub.probed)
	}
}

func TestVerifyRejectsInput(t *testing.T) {
	dir := t.TempDir()
	mkv := writeFile(t, dir, "theme.mkv")
	stub := newStubProvider(t)

	v, err := New(WithProvider(stub))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Verify(context.Background(), mkv); !errors.IsKind(err, errors.KindExtension) {
		t.Errorf("Verify(mkv) error = %v, want extension error", err)
	}
	if _, err := v.Verify(context.Background(), filepath.Join(dir, "gone.webm")); !errors.IsKind(err, errors.KindPath) {
		t.Errorf("Verify(missing) error = %v, want path error", err)
	}
	if len(stub.probed) != 0 {
		t.Error("rejected input should never be probed")
	}
}

func TestVerifyBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.webm")
	b := writeFile(t, dir, "b.webm")
	stub := newStubProvider(t)

	v, err := New(WithProvider(stub), WithGroups("video"))
	if err != nil {
		t.Fatal(err)
	}

	summary, err := v.VerifyBatch(context.Background(), []string{b, a})
	if err != nil {
		t.Fatalf("VerifyBatch() error = %v", err)
	}
	if len(summary.Files) != 2 || summary.Files[0].File != b || summary.Files[1].File != a {
		t.Errorf("files out of input order: %+v", summary.Files)
	}
	if !summary.Passed() {
		t.Error("batch should pass")
	}
	for _, f := range summary.Files {
		if len(f.Groups) != 1 || f.Groups[0].Name != "video" {
			t.Errorf("groups = %+v, want only video", f.Groups)
		}
	}

	if _, err := v.VerifyBatch(context.Background(), nil); !errors.IsNoFilesFound(err) {
		t.Errorf("VerifyBatch(nil) error = %v, want no files found", err)
	}
}

type countingReporter struct {
	reporter.NullReporter
	completed int
	batches   int
}

func (c *countingReporter) FileComplete(*reporter.FileReport)   { c.completed++ }
func (c *countingReporter) BatchComplete(reporter.BatchSummary) { c.batches++ }

func TestVerifyBatchFansOutToReporters(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.webm")
	first, second := &countingReporter{}, &countingReporter{}

	v, err := New(WithProvider(newStubProvider(t)), WithReporter(first, second))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.VerifyBatch(context.Background(), []string{a}); err != nil {
		t.Fatal(err)
	}
	for i, c := range []*countingReporter{first, second} {
		if c.completed != 1 || c.batches != 1 {
			t.Errorf("reporter %d saw %d files, %d batches", i, c.completed, c.batches)
		}
	}
}

func TestFindWebMs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.webm")
	writeFile(t, dir, "a.webm")

	files, err := FindWebMs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.webm"), filepath.Join(dir, "b.webm")}
	if !slices.Equal(files, want) {
		t.Errorf("FindWebMs() = %v, want %v", files, want)
	}
}
