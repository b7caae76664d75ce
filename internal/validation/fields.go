package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/webmverify/internal/ffprobe"
	"github.com/five82/webmverify/internal/metadata"
)

// streamField reads a field of the stream resolved for role. A container
// with no stream at the resolved index is an error, not a failure.
func streamField(v *metadata.View, role ffprobe.CodecType, name string) (string, error) {
	idx := v.Index().Video
	if role == ffprobe.CodecAudio {
		idx = v.Index().Audio
	}
	s, ok := v.StreamAt(idx)
	if !ok {
		return "", fmt.Errorf("no %s stream", role)
	}
	return s.Field(name), nil
}

// shown renders a field value for a reason, marking absent values.
func shown(value string) string {
	if value == "" {
		return "(missing)"
	}
	return fmt.Sprintf("%q", value)
}

// parseInt reads an integer field. An absent or malformed value is an error
// rather than a compliance failure.
func parseInt(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is missing", name)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, raw)
	}
	return n, nil
}

// equals builds a check that passes when got equals want.
func equals(label, got, want string) Verdict {
	if got != want {
		return Fail("%s is %s, expected %q", label, shown(got), want)
	}
	return Pass()
}

// oneOf builds a check that passes when got is in allowed.
func oneOf(label, got string, allowed []string) Verdict {
	for _, a := range allowed {
		if got == a {
			return Pass()
		}
	}
	return Fail("%s is %s, expected one of %s", label, shown(got), strings.Join(allowed, ", "))
}
