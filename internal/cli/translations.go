package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrlokans/joshua/internal/entrypoint"
)

func (r *root) translationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "translations",
		Aliases: []string{"tr"},
		Short:   "List, download and switch translations",
	}

	var refresh bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List the current, downloaded and available translations",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			if refresh || inst.Remote.Enabled() {
				if _, err := inst.App.Translations.ReloadTranslations(ctx, refresh); err != nil {
					return fmt.Errorf("refresh catalog: %w", err)
				}
			}
			translations, err := inst.App.Translations.ListTranslations()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if translations.Current == nil && len(translations.Downloaded) == 0 && len(translations.Available) == 0 {
				fmt.Fprintln(out, "No translations. Set REMOTE_BASE_URL and run 'joshua translations list --refresh'.")
				return nil
			}

			t := newTable("Short name", "Name", "Language", "Status")
			if current := translations.Current; current != nil {
				t.Row(current.ShortName, current.Name, current.Language, "current")
			}
			for _, info := range translations.Downloaded {
				t.Row(info.ShortName, info.Name, info.Language, "downloaded")
			}
			for _, info := range translations.Available {
				t.Row(info.ShortName, info.Name, info.Language, formatSize(info.Size))
			}
			fmt.Fprintln(out, t)
			return nil
		}),
	}
	list.Flags().BoolVar(&refresh, "refresh", false, "reload the catalog from the server even if it is fresh")

	download := &cobra.Command{
		Use:   "download <short-name>",
		Short: "Download and install a translation",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			if _, err := inst.App.Translations.ReloadTranslations(ctx, false); err != nil {
				return fmt.Errorf("refresh catalog: %w", err)
			}
			shortName := args[0]
			err := withProgress(cmd.ErrOrStderr(), "Downloading "+shortName, func(progress chan<- int) error {
				return inst.App.Translations.DownloadTranslation(ctx, shortName, progress)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", shortName)
			return nil
		}),
	}

	remove := &cobra.Command{
		Use:   "remove <short-name>",
		Short: "Remove a downloaded translation",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			if err := inst.App.Translations.RemoveTranslation(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		}),
	}

	use := &cobra.Command{
		Use:   "use <short-name>",
		Short: "Make a downloaded translation current",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			if err := inst.App.Reading.SaveCurrentTranslation(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current translation is now %s\n", args[0])
			return nil
		}),
	}

	parallel := &cobra.Command{
		Use:   "parallel [short-name...]",
		Short: "Show or set the translations read alongside the current one",
		Long: `Without arguments, prints the parallel translations. With arguments,
replaces them. Use --clear to remove all of them.`,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			reading := inst.App.Reading
			clearAll, _ := cmd.Flags().GetBool("clear")
			if clearAll || len(args) > 0 {
				if err := reading.ClearParallelTranslations(); err != nil {
					return err
				}
			}
			for _, shortName := range args {
				if err := reading.RequestParallelTranslation(shortName); err != nil {
					return err
				}
			}

			parallel, err := reading.ParallelTranslations()
			if err != nil {
				return err
			}
			if len(parallel) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No parallel translations")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parallel, ", "))
			return nil
		}),
	}
	parallel.Flags().Bool("clear", false, "remove every parallel translation")

	cmd.AddCommand(list, download, remove, use, parallel)
	return cmd
}

// withProgress runs fn and renders the values it reports as a percentage
// on w.
func withProgress(w io.Writer, label string, fn func(progress chan<- int) error) error {
	progress := make(chan int, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for value := range progress {
			if value >= 100 {
				fmt.Fprintf(w, "\r%s... installing", label)
				continue
			}
			fmt.Fprintf(w, "\r%s... %3d%%", label, value)
		}
	}()

	err := fn(progress)
	close(progress)
	wg.Wait()
	fmt.Fprintln(w)
	return err
}

func formatSize(size int64) string {
	if size <= 0 {
		return "available"
	}
	const mb = 1 << 20
	if size < mb {
		return fmt.Sprintf("%d KB", (size+1023)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(size)/mb)
}
