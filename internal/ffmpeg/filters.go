package ffmpeg

import "strings"

// AudioFilterChain builds audio filter chains for -af.
type AudioFilterChain struct {
	filters []string
}

// NewAudioFilterChain creates a new empty filter chain.
func NewAudioFilterChain() *AudioFilterChain {
	return &AudioFilterChain{}
}

// AddFilter adds a filter to the chain. Empty filters are ignored.
func (c *AudioFilterChain) AddFilter(filter string) *AudioFilterChain {
	if filter != "" {
		c.filters = append(c.filters, filter)
	}
	return c
}

// Build builds the filter chain into a single filter string.
// Returns empty string if no filters are present.
func (c *AudioFilterChain) Build() string {
	if len(c.filters) == 0 {
		return ""
	}
	return strings.Join(c.filters, ",")
}

// IsEmpty returns true if no filters are present.
func (c *AudioFilterChain) IsEmpty() bool {
	return len(c.filters) == 0
}
