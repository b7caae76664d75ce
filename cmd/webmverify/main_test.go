package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubLookPath(t *testing.T, missing string) {
	t.Helper()
	orig := lookPath
	lookPath = func(file string) (string, error) {
		if file == missing {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + file, nil
	}
	t.Cleanup(func() { lookPath = orig })
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"--version"}} {
		code, out, _ := runCLI(t, args...)
		if code != exitOK {
			t.Errorf("%v: exit = %d", args, code)
		}
		if out != "webmverify version "+appVersion+"\n" {
			t.Errorf("%v: output = %q", args, out)
		}
	}
}

func TestGroupsCommand(t *testing.T) {
	code, out, _ := runCLI(t, "groups")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	for _, want := range []string{"format", "video", "audio", "metadata_leak", "loudness_tp", "framerate"} {
		if !strings.Contains(out, want) {
			t.Errorf("groups output missing %q", want)
		}
	}
}

func TestSetupErrors(t *testing.T) {
	dir := t.TempDir()
	mkv := filepath.Join(dir, "theme.mkv")
	if err := os.WriteFile(mkv, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		missing string
		args    []string
		want    string
	}{
		{"missing ffmpeg", "ffmpeg", []string{mkv}, "ffmpeg is required"},
		{"missing ffprobe", "ffprobe", []string{mkv}, "ffprobe is required"},
		{"wrong extension", "", []string{mkv}, "is not WebM"},
		{"missing file", "", []string{filepath.Join(dir, "gone.webm")}, "does not exist or is not readable"},
		{"unknown group", "", []string{"--groups", "subtitles"}, "unknown rule group 'subtitles'"},
		{"bad format", "", []string{"--format", "xml"}, "invalid report format"},
		{"bad log level", "", []string{"--loglevel", "loud"}, "invalid log level"},
		{"negative jobs", "", []string{"--jobs", "-2"}, "job count"},
		{"missing config", "", []string{"--config", filepath.Join(dir, "none.toml")}, "Configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubLookPath(t, tt.missing)
			code, _, errOut := runCLI(t, tt.args...)
			if code != exitFailure {
				t.Errorf("exit = %d, want %d", code, exitFailure)
			}
			if !strings.HasPrefix(errOut, "Error: ") || !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr = %q, want mention of %q", errOut, tt.want)
			}
		})
	}
}

func TestNoFilesInDirectory(t *testing.T) {
	stubLookPath(t, "")
	t.Chdir(t.TempDir())

	code, _, errOut := runCLI(t)
	if code != exitFailure {
		t.Errorf("exit = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(errOut, "no WebMs to verify") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestInterruptBeforeStart(t *testing.T) {
	stubLookPath(t, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.webm")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--format", "json", path}, &stdout, &stderr)
	if code != exitInterrupted {
		t.Errorf("exit = %d, want %d", code, exitInterrupted)
	}
	if !strings.Contains(stderr.String(), "Exiting after interrupt") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestGroupsFlagForms(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"comma separated", []string{"--groups", "format,audio"}, []string{"format", "audio"}},
		{"repeated", []string{"-g", "format", "-g", "audio"}, []string{"format", "audio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}
			got, err := cmd.Flags().GetStringSlice("groups")
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("groups = %v, want %v", got, tt.want)
			}
			if n := len(cmd.Flags().Args()); n != 0 {
				t.Errorf("%d positional args, want 0", n)
			}
		})
	}

	// A space-separated group name is a file argument.
	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--groups", "format", "audio"}); err != nil {
		t.Fatal(err)
	}
	if args := cmd.Flags().Args(); len(args) != 1 || args[0] != "audio" {
		t.Errorf("args = %v, want [audio]", args)
	}
	if usage := cmd.Flags().Lookup("groups").Usage; !strings.Contains(usage, "comma-separated") {
		t.Errorf("groups usage %q does not describe the comma form", usage)
	}
}
