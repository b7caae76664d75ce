package ffprobe

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
)

// Tag is a single metadata tag with its key as written by the muxer.
type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered tag mapping with case-insensitive lookup.
//
// A nil *Tags means the tags object was absent; a non-nil empty *Tags means it
// was present but empty. Callers that care about the difference check for nil.
type Tags struct {
	entries []Tag
}

// NewTags builds a tag mapping from key/value pairs in order.
func NewTags(pairs ...Tag) *Tags {
	return &Tags{entries: append([]Tag(nil), pairs...)}
}

// foldKey returns the case-folded form of a tag key. A Caser is stateful, so
// a fresh one is used per call.
func foldKey(key string) string {
	return cases.Fold().String(key)
}

// Len returns the number of tags. It is safe on a nil receiver.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Get returns the first value whose key matches name case-insensitively.
func (t *Tags) Get(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	want := foldKey(name)
	for _, e := range t.entries {
		if foldKey(e.Key) == want {
			return e.Value, true
		}
	}
	return "", false
}

// Lookup returns every tag whose key matches name case-insensitively.
func (t *Tags) Lookup(name string) []Tag {
	if t == nil {
		return nil
	}
	want := foldKey(name)
	var out []Tag
	for _, e := range t.entries {
		if foldKey(e.Key) == want {
			out = append(out, e)
		}
	}
	return out
}

// Except returns the tags whose keys match none of the allowed names.
func (t *Tags) Except(allowed ...string) []Tag {
	if t == nil {
		return nil
	}
	folded := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		folded[foldKey(a)] = struct{}{}
	}
	var out []Tag
	for _, e := range t.entries {
		if _, ok := folded[foldKey(e.Key)]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// UnmarshalJSON decodes a tags object preserving key order.
func (t *Tags) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tags: expected object, got %v", tok)
	}

	t.entries = t.entries[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tags: unexpected key %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("tags: value for %q: %w", key, err)
		}
		s, _ := scalarString(value)
		t.entries = append(t.entries, Tag{Key: key, Value: s})
	}
	_, err = dec.Token()
	return err
}
