package main

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/webmverify"
	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/discovery"
	coreerrors "github.com/five82/webmverify/internal/errors"
	"github.com/five82/webmverify/internal/ffmpeg"
	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/logging"
	"github.com/five82/webmverify/internal/reporter"
)

// errNotCompliant signals that verification ran but some rule did not pass.
var errNotCompliant = errors.New("not every rule passed")

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

type rootOptions struct {
	configPath string
	logLevel   string
	groups     []string
	format     string
	jobs       int
	tempDir    string
	noColor    bool
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           appName + " [files...]",
		Short:         "Verify WebMs against the AnimeThemes encoding standard",
		Long:          "Verify WebMs against the AnimeThemes encoding standard.\n\nWith no files, every *.webm in the working directory is verified.",
		Version:       appVersion,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, &opts, args)
		},
	}
	rootCmd.SetVersionTemplate(appName + " version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Policy file path (default ./"+config.ProjectConfigName+" or "+config.UserConfigPath+")")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.logLevel, "loglevel", "l", config.DefaultLogLevel, "Log level ("+strings.Join(config.LogLevels, ", ")+")")
	flags.StringSliceVarP(&opts.groups, "groups", "g", nil, "Rule groups to run, comma-separated or repeated (default all)")
	flags.StringVarP(&opts.format, "format", "f", config.DefaultFormat, "Report format ("+strings.Join(config.Formats, ", ")+")")
	flags.IntVarP(&opts.jobs, "jobs", "j", config.DefaultJobs, "Files verified at once (0 = one per CPU)")
	flags.StringVar(&opts.tempDir, "temp-dir", "", "Directory for audio extracts (default system temp)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newGroupsCommand(&opts))

	return rootCmd
}

// loadConfig reads the policy file and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, string, bool, error) {
	cfg, path, exists, err := config.Load(opts.configPath)
	if err != nil {
		return nil, "", false, err
	}

	flags := cmd.Flags()
	if flags.Changed("loglevel") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("groups") {
		cfg.Groups = opts.groups
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if flags.Changed("temp-dir") {
		cfg.TempDir = opts.tempDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, coreerrors.NewConfigError("invalid arguments", err)
	}
	return cfg, path, exists, nil
}

func runVerify(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, cfgPath, cfgExists, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return coreerrors.NewConfigError("invalid log level", err)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Output = cmd.ErrOrStderr()
	logger := logging.New(logCfg)
	if cfgExists {
		logger.Debug("loaded config", "path", cfgPath)
	}

	rep := newReporter(cfg.Format, cmd.OutOrStdout(), cmd.ErrOrStderr(), !opts.noColor, level <= logging.LevelDebug)

	v, err := webmverify.New(
		webmverify.WithConfig(cfg),
		webmverify.WithLogger(logger.Logger),
		webmverify.WithReporter(rep),
	)
	if err != nil {
		return err
	}

	if err := checkTools(); err != nil {
		return err
	}

	files, err := discovery.Resolve(args, ".", logger.Logger)
	if err != nil {
		return err
	}

	logger.Info("verifying files", "count", len(files), "groups", v.Groups())
	summary, err := v.VerifyBatch(cmd.Context(), files)
	if err != nil {
		return err
	}
	if !summary.Passed() {
		return errNotCompliant
	}
	return nil
}

// checkTools confirms ffmpeg and ffprobe are on PATH.
func checkTools() error {
	for _, tool := range []string{ffmpeg.Binary, ffprobe.Binary} {
		if _, err := lookPath(tool); err != nil {
			return coreerrors.NewMissingToolError(tool)
		}
	}
	return nil
}

func newReporter(format string, stdout, stderr io.Writer, colorize, verbose bool) reporter.Reporter {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return reporter.NewJSONReporterWithWriter(stdout)
	case config.FormatYAML:
		return reporter.NewYAMLReporterWithWriters(stdout, stderr)
	default:
		return reporter.NewTerminalReporter(reporter.TerminalOptions{
			Out:      stdout,
			Err:      stderr,
			Color:    colorize && os.Getenv("NO_COLOR") == "" && isTerminal(stdout),
			Progress: isTerminal(stderr),
			Verbose:  verbose,
		})
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
