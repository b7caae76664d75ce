package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/errors"
)

// Group names.
const (
	GroupFormat = "format"
	GroupVideo  = "video"
	GroupAudio  = "audio"
)

// Catalog is the fixed set of rule groups in declaration order.
type Catalog struct {
	groups []Group
}

// NewCatalog builds the format, video and audio groups using the thresholds
// in policy.
func NewCatalog(policy config.Policy) *Catalog {
	return &Catalog{groups: []Group{
		FormatGroup(policy),
		VideoGroup(),
		AudioGroup(policy),
	}}
}

// Groups returns every group in declaration order.
func (c *Catalog) Groups() []Group {
	return slices.Clone(c.groups)
}

// Names returns every group name in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.Name
	}
	return names
}

// Lookup returns the group with the given name, ignoring case.
func (c *Catalog) Lookup(name string) (Group, bool) {
	for _, g := range c.groups {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return Group{}, false
}

// Select resolves group names to groups. An empty selection means every
// group. Groups come back in declaration order with duplicates dropped, so
// the order of names does not change the report.
func (c *Catalog) Select(names []string) ([]Group, error) {
	if len(names) == 0 {
		return c.Groups(), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		g, ok := c.Lookup(name)
		if !ok {
			return nil, errors.NewConfigError(
				fmt.Sprintf("unknown rule group '%s', valid options: %s", name, strings.Join(c.Names(), ", ")), nil)
		}
		wanted[g.Name] = true
	}

	var selected []Group
	for _, g := range c.groups {
		if wanted[g.Name] {
			selected = append(selected, g)
		}
	}
	return selected, nil
}
