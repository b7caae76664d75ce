// Package ffmpeg provides FFmpeg command building and execution for the
// audio-only measurements the verifier needs.
package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// Loudness targets the measurement pass is run against.
const (
	TargetIntegratedLoudness = -16.0
	TargetLoudnessRange      = 20.0
	TargetTruePeak           = -1.0
)

// LoudnormParamsBuilder builds loudnorm filter options with method chaining.
type LoudnormParamsBuilder struct {
	params []paramKV
}

type paramKV struct {
	key   string
	value string
}

// NewLoudnormParamsBuilder creates a new loudnorm parameters builder.
func NewLoudnormParamsBuilder() *LoudnormParamsBuilder {
	return &LoudnormParamsBuilder{}
}

// WithIntegrated sets the integrated loudness target in LUFS.
func (b *LoudnormParamsBuilder) WithIntegrated(lufs float64) *LoudnormParamsBuilder {
	b.params = append(b.params, paramKV{"I", formatFloat(lufs)})
	return b
}

// WithLoudnessRange sets the loudness range target.
func (b *LoudnormParamsBuilder) WithLoudnessRange(lra float64) *LoudnormParamsBuilder {
	b.params = append(b.params, paramKV{"LRA", formatFloat(lra)})
	return b
}

// WithTruePeak sets the maximum true peak in dBTP.
func (b *LoudnormParamsBuilder) WithTruePeak(tp float64) *LoudnormParamsBuilder {
	b.params = append(b.params, paramKV{"TP", formatFloat(tp)})
	return b
}

// WithDualMono treats mono input as dual-mono.
func (b *LoudnormParamsBuilder) WithDualMono(enabled bool) *LoudnormParamsBuilder {
	b.params = append(b.params, paramKV{"dual_mono", strconv.FormatBool(enabled)})
	return b
}

// WithLinear enables linear normalization when possible.
func (b *LoudnormParamsBuilder) WithLinear(enabled bool) *LoudnormParamsBuilder {
	b.params = append(b.params, paramKV{"linear", strconv.FormatBool(enabled)})
	return b
}

// WithPrintFormat sets the measurement print format (json, summary, none).
func (b *LoudnormParamsBuilder) WithPrintFormat(format string) *LoudnormParamsBuilder {
	b.params = append(b.params, paramKV{"print_format", format})
	return b
}

// Build builds the filter expression, e.g. "loudnorm=I=-16:LRA=20".
func (b *LoudnormParamsBuilder) Build() string {
	var parts []string
	for _, p := range b.params {
		parts = append(parts, fmt.Sprintf("%s=%s", p.key, p.value))
	}
	if len(parts) == 0 {
		return "loudnorm"
	}
	return "loudnorm=" + strings.Join(parts, ":")
}

// DefaultLoudnormFilter returns the measurement filter used for verification.
func DefaultLoudnormFilter() string {
	return NewLoudnormParamsBuilder().
		WithIntegrated(TargetIntegratedLoudness).
		WithLoudnessRange(TargetLoudnessRange).
		WithTruePeak(TargetTruePeak).
		WithDualMono(true).
		WithLinear(true).
		WithPrintFormat("json").
		Build()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
