// cmd/bydupdates/site.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bydupdates/internal/builder"
	"bydupdates/internal/scaffold"
	"bydupdates/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var dev bool
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site, rendering pages from the CMS on request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			srv, err := server.New(server.Options{
				Site:   a.cfg,
				Source: client,
				Dev:    dev,
				Logger: a.log,
			})
			if err != nil {
				return err
			}
			if dev {
				fmt.Fprintf(cmd.OutOrStdout(), "Serving site on http://localhost:%d with live reload\n", a.cfg.Server.Port)
				fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "read the theme from disk, watch it and live-reload browsers")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port and PORT)")
	return cmd
}

func (a *app) buildCmd() *cobra.Command {
	var output string
	var keep bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the whole site as static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			opts := builder.BuildOptions{
				OutputDir:        output,
				CleanDestination: !keep,
				Site:             a.cfg,
				Source:           client,
				Logger:           a.log,
			}
			// A site created with init carries its own theme directories.
			if dir := a.cfg.Server.TemplateDir; isDir(dir) {
				opts.Templates = os.DirFS(dir)
			}
			if dir := a.cfg.Server.StaticDir; isDir(dir) {
				opts.Static = os.DirFS(dir)
			}
			if dir := a.cfg.Server.PagesDir; isDir(dir) {
				opts.Pages = os.DirFS(dir)
			}

			report, err := builder.BuildSite(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("site generation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Success! Generated %s pages and copied %s assets in %s.\n",
				humanize.Comma(int64(report.Pages)), humanize.Comma(int64(report.Assets)), report.Elapsed.Round(time.Millisecond))
			if report.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d pages without content.\n", report.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default build.output)")
	cmd.Flags().BoolVar(&keep, "keep", false, "do not clean the output directory first")
	return cmd
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <dir>",
		Short: "Create a starter site with an editable copy of the theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			files, err := scaffold.CreateNewSite(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Site scaffolded in %s (%d files). You can now:\n", dir, len(files))
			fmt.Fprintln(out, "  cd", dir)
			fmt.Fprintln(out, "  cp .env.example .env")
			fmt.Fprintln(out, "  bydupdates serve --dev")
			return nil
		},
	}
}

func (a *app) newPageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <title>",
		Short: "Create a draft markdown page from the archetype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Server.PagesDir
			if dir == "" {
				dir = "pages"
			}
			path, err := scaffold.CreateNewPage(dir, filepath.FromSlash(scaffold.ArchetypePath), args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created:", path)
			return nil
		},
	}
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
