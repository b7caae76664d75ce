package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/five82/webmverify/internal/errors"
)

// maxStderrInError bounds how much tool output is carried in an error.
const maxStderrInError = 2048

// run executes ffmpeg and returns its combined stdout and stderr. loudnorm
// prints its report on stderr interleaved with the banner, so both streams
// are needed.
func run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, Binary, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError(ctx.Err())
		}
		return nil, errors.WrapExecError(Binary, err, tail(out.String(), maxStderrInError))
	}
	return out.Bytes(), nil
}

// ExtractAudio stream-copies the audio of input into an Ogg file at output.
func ExtractAudio(ctx context.Context, input, output string) error {
	_, err := run(ctx, ExtractAudioArgs(input, output))
	return err
}

// MeasureLoudness runs the loudnorm measurement pass against input and
// returns the parsed report.
func MeasureLoudness(ctx context.Context, input string) (Loudness, error) {
	chain := NewAudioFilterChain().AddFilter(DefaultLoudnormFilter())
	output, err := run(ctx, LoudnessArgs(input, chain))
	if err != nil {
		return nil, err
	}
	return ParseLoudness(output)
}

// tail returns at most the last n bytes of s, starting on a rune boundary.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return "..." + s[cut:]
}
