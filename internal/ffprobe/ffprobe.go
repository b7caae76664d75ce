// Package ffprobe runs ffprobe and decodes its JSON output into a container
// descriptor.
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/five82/webmverify/internal/errors"
)

// Binary is the ffprobe executable name.
const Binary = "ffprobe"

// CodecType is the role of an elementary stream.
type CodecType string

const (
	CodecVideo CodecType = "video"
	CodecAudio CodecType = "audio"
)

// Container is the whole-file descriptor returned by ffprobe.
type Container struct {
	Streams  []Stream  `json:"streams"`
	Format   Format    `json:"format"`
	Chapters []Chapter `json:"chapters"`
}

// Stream is one elementary stream. Fields holds every scalar property of the
// stream rendered as a string; absent properties are simply not in the map.
// Tags is nil when ffprobe emitted no tags object for the stream.
type Stream struct {
	Index     int
	CodecType CodecType
	CodecName string
	Fields    map[string]string
	Tags      *Tags
}

// Field returns the named scalar property, or "" when absent.
func (s Stream) Field(name string) string {
	return s.Fields[name]
}

// UnmarshalJSON decodes an ffprobe stream object.
func (s *Stream) UnmarshalJSON(data []byte) error {
	fields, tags, err := decodeObject(data)
	if err != nil {
		return err
	}
	s.Fields = fields
	s.Tags = tags
	s.CodecType = CodecType(fields["codec_type"])
	s.CodecName = fields["codec_name"]
	if idx, ok := fields["index"]; ok {
		n, err := strconv.Atoi(idx)
		if err != nil {
			return fmt.Errorf("stream index %q: %w", idx, err)
		}
		s.Index = n
	}
	return nil
}

// Format holds the container-level section.
type Format struct {
	FormatName string
	BitRate    string
	Fields     map[string]string
	Tags       *Tags
}

// Field returns the named scalar property, or "" when absent.
func (f Format) Field(name string) string {
	return f.Fields[name]
}

// UnmarshalJSON decodes an ffprobe format object.
func (f *Format) UnmarshalJSON(data []byte) error {
	fields, tags, err := decodeObject(data)
	if err != nil {
		return err
	}
	f.Fields = fields
	f.Tags = tags
	f.FormatName = fields["format_name"]
	f.BitRate = fields["bit_rate"]
	return nil
}

// Chapter is a chapter marker.
type Chapter struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Tags      *Tags  `json:"tags"`
}

// decodeObject splits a JSON object into its scalar fields and its tags
// object. Nested objects other than tags (disposition, side data) are ignored.
func decodeObject(data []byte) (map[string]string, *Tags, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}

	fields := make(map[string]string, len(raw))
	var tags *Tags
	for key, value := range raw {
		if key == "tags" {
			if string(bytes.TrimSpace(value)) == "null" {
				continue
			}
			tags = &Tags{}
			if err := json.Unmarshal(value, tags); err != nil {
				return nil, nil, fmt.Errorf("tags: %w", err)
			}
			continue
		}
		if s, ok := scalarString(value); ok {
			fields[key] = s
		}
	}
	return fields, tags, nil
}

// scalarString renders a JSON scalar as text. Numbers keep their literal form
// so that "1080" and 1080 read the same.
func scalarString(value json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '{', '[':
		return "", false
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case 'n':
		return "", false
	default:
		return string(trimmed), true
	}
}

// Parse decodes ffprobe JSON output. Output without a format section is
// rejected because every rule group depends on it.
func Parse(data []byte) (*Container, error) {
	var probe struct {
		Container
		Format *json.RawMessage `json:"format"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.NewJSONParseError("failed to parse ffprobe output", err)
	}
	if probe.Format == nil {
		return nil, errors.NewProbeError("ffprobe output has no format section")
	}

	c := probe.Container
	if err := json.Unmarshal(*probe.Format, &c.Format); err != nil {
		return nil, errors.NewJSONParseError("failed to parse ffprobe format section", err)
	}
	if c.Chapters == nil {
		c.Chapters = []Chapter{}
	}
	return &c, nil
}

// Args returns the ffprobe arguments used to describe a file.
func Args(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-show_chapters",
		path,
	}
}

// Probe runs ffprobe against path and returns the decoded descriptor.
func Probe(ctx context.Context, path string) (*Container, error) {
	cmd := exec.CommandContext(ctx, Binary, Args(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelledError(ctx.Err())
		}
		return nil, errors.WrapExecError(Binary, err, strings.TrimSpace(stderr.String()))
	}
	return Parse(output)
}
