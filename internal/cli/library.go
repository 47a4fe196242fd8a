package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/joshua/internal/config"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/entrypoint"
	"github.com/mrlokans/joshua/internal/exporters"
	"github.com/mrlokans/joshua/internal/mcp"
)

func (r *root) strongsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strongs",
		Short: "Download and look up Strong's numbers",
	}

	download := &cobra.Command{
		Use:   "download",
		Short: "Download the Strong's concordance",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			err := withProgress(cmd.ErrOrStderr(), "Downloading Strong's numbers", func(progress chan<- int) error {
				return inst.App.StrongNumbers.Download(ctx, progress)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Installed Strong's numbers")
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <book> <chapter> <verse>",
		Short: "Show the Strong's numbers of a verse",
		Args:  cobra.ExactArgs(3),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			hasData, err := inst.App.StrongNumbers.HasData()
			if err != nil {
				return err
			}
			if !hasData {
				return fmt.Errorf("no Strong's numbers installed; run 'joshua strongs download' first")
			}
			index, err := parseVerseArgs(inst.App, args)
			if err != nil {
				return err
			}

			numbers, err := inst.App.StrongNumbers.Read(index)
			if err != nil {
				return err
			}
			if len(numbers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No Strong's numbers for this verse")
				return nil
			}
			t := newTable("Number", "Meaning")
			for _, number := range numbers {
				t.Row(number.Number, number.Meaning)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		}),
	}

	cmd.AddCommand(download, show)
	return cmd
}

func (r *root) progressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show reading progress",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			summary, err := inst.App.Progress.Summary()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Reading progress")
			t := newTable("", "")
			t.Row("Streak", fmt.Sprintf("%d days", summary.ContinuousReadingDays))
			t.Row("Chapters read", fmt.Sprintf("%d of %d", summary.ChaptersRead, summary.TotalChapters))
			t.Row("Old Testament", fmt.Sprintf("%d chapters", summary.OldTestamentChapters))
			t.Row("New Testament", fmt.Sprintf("%d chapters", summary.NewTestamentChapters))
			t.Row("Finished books", fmt.Sprint(summary.FinishedBooks))
			t.Row("Time spent", (time.Duration(summary.TotalTimeSpentInMillis) * time.Millisecond).Round(time.Second).String())
			fmt.Fprintln(out, t)
			return nil
		}),
	}
}

func (r *root) exportCommand() *cobra.Command {
	var (
		sort string
		dir  string
	)

	cmd := &cobra.Command{
		Use:       "export <markdown|epub>",
		Short:     "Export bookmarks, highlights and notes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"markdown", "epub"},
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			if dir == "" {
				dir = inst.Config.Export.Dir
			}
			if dir == "" {
				dir = config.DefaultExportDir
			}

			var exporter exporters.Exporter
			switch args[0] {
			case "markdown", "md":
				exporter = exporters.NewMarkdownExporter(dir)
			case "epub":
				exporter = exporters.NewEPUBExporter(dir)
			default:
				return fmt.Errorf("unknown export format %q, expected markdown or epub", args[0])
			}

			order, err := entities.ParseSortOrder(sort)
			if err != nil {
				return err
			}
			doc, err := exporters.Collect(order, inst.App.Bookmarks, inst.App.Highlights, inst.App.Notes)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create export directory: %w", err)
			}
			result, err := exporter.Export(doc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks, %d highlights and %d notes to %s\n",
				result.BookmarksExported, result.HighlightsExported, result.NotesExported, result.Path)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&sort, "sort", "s", "book", "sort by date or book")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "export directory (default: EXPORT_DIR)")
	return cmd
}

func (r *root) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the library to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			return mcp.Serve(inst.App, r.build.Version)
		}),
	}
}
