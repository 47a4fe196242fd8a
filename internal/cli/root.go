// Package cli implements the joshua command line: the HTTP server, the MCP
// server and terminal commands for reading, searching and annotating.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/joshua/internal/config"
	"github.com/mrlokans/joshua/internal/entrypoint"
)

// BuildInfo is set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

// root carries the state shared by every command.
type root struct {
	build  BuildInfo
	dbPath string
	cfg    *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	r := &root{build: build}

	cmd := &cobra.Command{
		Use:   "joshua",
		Short: "Read, search and annotate the Bible",
		Long: `joshua is a Bible reader. It downloads translations and Strong's
numbers from a content server and keeps bookmarks, highlights, notes and
reading progress in a local database.

Run without a command to start the HTTP server.`,
		Version:       fmt.Sprintf("%s (%s)", build.Version, build.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			r.cfg = config.NewConfig()
			if r.dbPath != "" {
				r.cfg.Database.Path = r.dbPath
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(r.cfg, r.build.Version)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&r.dbPath, "db", "", "path to the database (overrides DATABASE_PATH)")

	cmd.AddCommand(
		r.serveCommand(),
		r.mcpCommand(),
		r.translationsCommand(),
		r.readCommand(),
		r.searchCommand(),
		r.bookmarksCommand(),
		r.highlightsCommand(),
		r.notesCommand(),
		r.strongsCommand(),
		r.progressCommand(),
		r.exportCommand(),
	)
	return cmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute(build BuildInfo) {
	if err := NewRootCommand(build).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run opens the application without the task queue for the duration of fn.
func (r *root) run(fn func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		inst, err := entrypoint.Open(r.cfg, entrypoint.OpenOptions{Quiet: true})
		if err != nil {
			return err
		}
		defer inst.Close()
		return fn(cmd.Context(), cmd, inst, args)
	}
}

func (r *root) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entrypoint.Run(r.cfg, r.build.Version)
			return nil
		},
	}
}
