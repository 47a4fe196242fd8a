package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/entrypoint"
	"github.com/mrlokans/joshua/internal/services"
)

type annotationLister interface {
	ReadSortOrder() (entities.SortOrder, error)
	SaveSortOrder(order entities.SortOrder) error
	List(order entities.SortOrder) (*services.AnnotationList, error)
}

// listCommand lists annotations in the saved order, or in --sort order
// which is then saved.
func (r *root) listCommand(plural string, lister func(a *app.App) annotationLister) *cobra.Command {
	var sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + plural,
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			l := lister(inst.App)
			order, err := l.ReadSortOrder()
			if err != nil {
				return err
			}
			if sort != "" {
				if order, err = entities.ParseSortOrder(sort); err != nil {
					return err
				}
				if err := l.SaveSortOrder(order); err != nil {
					return err
				}
			}

			list, err := l.List(order)
			if err != nil {
				return err
			}
			if list.Count == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s\n", plural)
				return nil
			}
			printAnnotationList(cmd.OutOrStdout(), list)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "sort by date or book, and remember the choice")
	return cmd
}

func printAnnotationList(w io.Writer, list *services.AnnotationList) {
	for i, item := range list.Items {
		if item.IsTitle() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printTitle(w, item.Title)
			continue
		}
		fmt.Fprintf(w, "  %s\n", highlightStyle(item.Color).Render(strings.ReplaceAll(item.Text, "\n", "\n  ")))
		if item.Note != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render("Note: "+item.Note))
		}
	}
}

func (r *root) bookmarksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List and toggle bookmarks",
	}

	toggle := &cobra.Command{
		Use:   "toggle <book> <chapter> <verse>",
		Short: "Bookmark a verse, or remove its bookmark",
		Args:  cobra.ExactArgs(3),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			index, err := parseVerseArgs(inst.App, args)
			if err != nil {
				return err
			}
			bookmarked, err := inst.App.Detail.ToggleBookmark(ctx, index)
			if err != nil {
				return err
			}
			if bookmarked {
				fmt.Fprintln(cmd.OutOrStdout(), "Bookmark added")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Bookmark removed")
			}
			return nil
		}),
	}

	cmd.AddCommand(
		r.listCommand("bookmarks", func(a *app.App) annotationLister { return a.Bookmarks }),
		toggle,
	)
	return cmd
}

func (r *root) highlightsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlights",
		Short: "List and set highlights",
	}

	set := &cobra.Command{
		Use:   "set <book> <chapter> <verse> <color>",
		Short: "Highlight a verse; the colour none removes the highlight",
		Long: fmt.Sprintf("Highlight a verse. Colours: %s.",
			strings.Join(colorNames(), ", ")),
		Args: cobra.ExactArgs(4),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			index, err := parseVerseArgs(inst.App, args[:3])
			if err != nil {
				return err
			}
			color, err := entities.ParseHighlightColor(args[3])
			if err != nil || !color.IsAvailable() {
				return fmt.Errorf("unknown colour %q, expected one of %s", args[3], strings.Join(colorNames(), ", "))
			}
			if err := inst.App.Detail.UpdateHighlight(ctx, index, color); err != nil {
				return err
			}
			if color == entities.HighlightColorNone {
				fmt.Fprintln(cmd.OutOrStdout(), "Highlight removed")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Highlighted in %s\n", color.Name())
			}
			return nil
		}),
	}

	cmd.AddCommand(
		r.listCommand("highlights", func(a *app.App) annotationLister { return a.Highlights }),
		set,
	)
	return cmd
}

func (r *root) notesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List and write notes",
	}

	set := &cobra.Command{
		Use:   "set <book> <chapter> <verse> [text...]",
		Short: "Write the note of a verse; no text removes it",
		Args:  cobra.MinimumNArgs(3),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			index, err := parseVerseArgs(inst.App, args[:3])
			if err != nil {
				return err
			}
			note := strings.Join(args[3:], " ")
			if err := inst.App.Detail.UpdateNote(ctx, index, note); err != nil {
				return err
			}
			if strings.TrimSpace(note) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Note removed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Note saved")
			}
			return nil
		}),
	}

	cmd.AddCommand(
		r.listCommand("notes", func(a *app.App) annotationLister { return a.Notes }),
		set,
	)
	return cmd
}

func colorNames() []string {
	names := make([]string, len(entities.AvailableHighlightColors))
	for i, c := range entities.AvailableHighlightColors {
		names[i] = c.Name()
	}
	return names
}
