package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/five82/webmverify/internal/config"
	"github.com/five82/webmverify/internal/validation"
)

func newGroupsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List rule groups and their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderGroups(validation.NewCatalog(cfg.Policy)))
			return nil
		},
	}
}

func renderGroups(catalog *validation.Catalog) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Group", "Rule", "Checks"})
	for i, g := range catalog.Groups() {
		if i > 0 {
			t.AppendSeparator()
		}
		for j, r := range g.Rules {
			name := ""
			if j == 0 {
				name = g.Name
			}
			t.AppendRow(table.Row{name, r.Name, r.Description})
		}
	}
	return t.Render() + "\n"
}
