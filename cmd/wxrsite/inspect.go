package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yjclinic/wxrsite/internal/pathstore"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <bundle.json>",
		Short: "Validate a generated bundle",
		Long:  "Decode a generated bundle and verify path uniqueness, menu resolution, templates and excerpt length.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readBundle(args[0])
			if err != nil {
				return err
			}
			if err := site.Validate(c); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d pages, %d posts, %d menu items, %d attachments\n",
				len(c.Pages), len(c.Posts), len(c.Menu.Items), len(c.Attachments))
			return nil
		},
	}
}

func newRoutesCmd(opts *options) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "routes <bundle.json>",
		Short: "List the static routes a bundle produces for every locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			c, err := readBundle(args[0])
			if err != nil {
				return err
			}
			store := pathstore.FromContent(c)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Locale", "URL", "ID", "Template"})
			for _, loc := range cfg.Locales {
				for _, p := range store.Routes() {
					rec, _ := store.Lookup(p)
					t.AppendRow(table.Row{loc, sitepath.WithLocale(loc, p), rec.ID, string(rec.Template)})
				}
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d routes", len(cfg.Locales)*store.Len()), "", ""})
			if markdown {
				t.RenderMarkdown()
			} else {
				t.Render()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the table as Markdown")
	return cmd
}

func readBundle(name string) (*site.Content, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return site.Decode(f)
}
