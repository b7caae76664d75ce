// Package webmverify checks WebM files against a fixed encoding standard.
//
// Each file is probed once with ffprobe and ffmpeg, and every selected rule
// group is evaluated against the result. A rule yields pass, fail or error;
// tool failures make a file inconclusive rather than stopping a batch.
//
// Basic usage:
//
//	v, err := webmverify.New(
//	    webmverify.WithGroups("format", "audio"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := v.Verify(ctx, "theme.webm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(report.File, report.Passed())
package webmverify

import (
	"context"
	"log/slog"

	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/discovery"
	"github.com/five82/webmverify/internal/errors"
	"github.com/five82/webmverify/internal/metadata"
	"github.com/five82/webmverify/internal/processing"
	"github.com/five82/webmverify/internal/reporter"
	"github.com/five82/webmverify/internal/validation"
)

// Re-exported types
type (
	Config       = config.Config
	Policy       = config.Policy
	Provider     = metadata.Provider
	Reporter     = reporter.Reporter
	Report       = reporter.FileReport
	GroupReport  = reporter.GroupReport
	RuleResult   = reporter.RuleResult
	BatchSummary = reporter.BatchSummary
	Status       = validation.Status
)

const (
	StatusPass  = validation.StatusPass
	StatusFail  = validation.StatusFail
	StatusError = validation.StatusError
)

// DefaultPolicy returns the current thresholds of the standard.
func DefaultPolicy() Policy {
	return config.DefaultPolicy()
}

// Verifier runs rule groups against WebM files.
type Verifier struct {
	config   *config.Config
	provider Provider
	reporter Reporter
	logger   *slog.Logger
	groups   []validation.Group
}

// Option configures the verifier.
type Option func(*Verifier)

// New creates a Verifier with the given options. Unknown group names and
// invalid settings are reported as configuration errors.
func New(opts ...Option) (*Verifier, error) {
	v := &Verifier{config: config.NewConfig()}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.config.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid options", err)
	}

	groups, err := validation.NewCatalog(v.config.Policy).Select(v.config.Groups)
	if err != nil {
		return nil, err
	}
	v.groups = groups

	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	if v.provider == nil {
		v.provider = metadata.NewFFProvider(v.config.TempDir, v.logger)
	}
	return v, nil
}

// WithConfig replaces the whole configuration, typically one read from a
// policy file. Options applied after it override its fields.
func WithConfig(cfg *Config) Option {
	return func(v *Verifier) {
		c := *cfg
		v.config = &c
	}
}

// WithGroups selects rule groups by name. No names means every group.
func WithGroups(names ...string) Option {
	return func(v *Verifier) {
		v.config.Groups = names
	}
}

// WithPolicy sets the thresholds that vary between revisions of the standard.
func WithPolicy(p Policy) Option {
	return func(v *Verifier) {
		v.config.Policy = p
	}
}

// WithJobs sets how many files VerifyBatch checks at once; 0 means one per CPU.
func WithJobs(n int) Option {
	return func(v *Verifier) {
		v.config.Jobs = n
	}
}

// WithTempDir sets where audio extracts are written.
func WithTempDir(dir string) Option {
	return func(v *Verifier) {
		v.config.TempDir = dir
	}
}

// WithLogger sets the structured log sink.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithReporter sets the reporters that receive batch events. Several
// reporters receive every event in the order given.
func WithReporter(reps ...Reporter) Option {
	return func(v *Verifier) {
		switch len(reps) {
		case 0:
			v.reporter = nil
		case 1:
			v.reporter = reps[0]
		default:
			v.reporter = reporter.NewCompositeReporter(reps...)
		}
	}
}

// WithProvider replaces the ffprobe/ffmpeg metadata source.
func WithProvider(p Provider) Option {
	return func(v *Verifier) {
		v.provider = p
	}
}

// Groups returns the names of the selected rule groups in run order.
func (v *Verifier) Groups() []string {
	names := make([]string, len(v.groups))
	for i, g := range v.groups {
		names[i] = g.Name
	}
	return names
}

func (v *Verifier) session() *processing.Session {
	return processing.NewSession(v.provider, v.reporter, v.logger, v.config.Jobs)
}

// Verify checks a single file. The path must be a readable .webm file. Tool
// failures are returned in the report's Err field, not as an error.
func (v *Verifier) Verify(ctx context.Context, path string) (*Report, error) {
	if err := discovery.CheckFile(path); err != nil {
		return nil, err
	}
	return v.session().Verify(ctx, path, v.groups)
}

// VerifyBatch checks paths in order and reports progress to the configured
// reporter. Every path is validated before any is probed.
func (v *Verifier) VerifyBatch(ctx context.Context, paths []string) (BatchSummary, error) {
	for _, path := range paths {
		if err := discovery.CheckFile(path); err != nil {
			return BatchSummary{}, err
		}
	}
	if len(paths) == 0 {
		return BatchSummary{}, errors.NewNoFilesFoundError("the given paths")
	}
	return v.session().VerifyFiles(ctx, paths, v.groups)
}

// FindWebMs returns the .webm files in dir sorted by name.
func FindWebMs(dir string) ([]string, error) {
	return discovery.FindWebMFiles(dir)
}
