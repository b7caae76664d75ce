package ffmpeg

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/five82/webmverify/internal/errors"
)

// Loudness keys reported by the loudnorm filter.
const (
	InputI       = "input_i"
	InputTP      = "input_tp"
	InputLRA     = "input_lra"
	InputThresh  = "input_thresh"
	TargetOffset = "target_offset"
)

// Loudness is the flat loudnorm report. Values are kept as the strings
// ffmpeg printed them; use Float to read them as numbers.
type Loudness map[string]string

// Get returns the named value, or "" when absent.
func (l Loudness) Get(name string) string {
	return l[name]
}

// Float parses the named value as a float64.
func (l Loudness) Float(name string) (float64, error) {
	raw, ok := l[name]
	if !ok {
		return 0, fmt.Errorf("loudness field %s is missing", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("loudness field %s: %w", name, err)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("loudness field %s is not a number", name)
	}
	return v, nil
}

// jsonBlock matches the first brace-delimited block. loudnorm output is flat,
// so the block never contains a nested closing brace.
var jsonBlock = regexp.MustCompile(`(?s)\{[^}]*\}`)

// ParseLoudness extracts and decodes the loudnorm JSON block from mixed
// ffmpeg output.
func ParseLoudness(output []byte) (Loudness, error) {
	block := jsonBlock.Find(output)
	if block == nil {
		return nil, errors.NewProbeError("no loudness report found in ffmpeg output")
	}

	var raw map[string]any
	if err := json.Unmarshal(block, &raw); err != nil {
		return nil, errors.NewJSONParseError("failed to parse loudness report", err)
	}

	l := make(Loudness, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			l[k] = val
		case float64:
			l[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			l[k] = fmt.Sprint(val)
		}
	}
	return l, nil
}
