package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/entrypoint"
)

func (r *root) readCommand() *cobra.Command {
	var (
		translation string
		parallel    []string
		noParallel  bool
	)

	cmd := &cobra.Command{
		Use:   "read [book chapter]",
		Short: "Print a chapter",
		Long: `Print a chapter of the current translation with its annotations.
The book is a number from 1 to 66 or the start of its name. Without
arguments the chapter last read is printed. The chapter becomes the
current reading position.`,
		Example: `  joshua read genesis 1
  joshua read 43 3 --parallel ESV`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected a book and a chapter, got %d arguments", len(args))
			}
			return nil
		},
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			a := inst.App
			if translation == "" {
				current, err := a.Reading.RequireCurrentTranslation()
				if err != nil {
					return err
				}
				translation = current
			}

			index, err := a.Reading.CurrentVerseIndex()
			if err != nil {
				return err
			}
			if len(args) == 2 {
				bookIndex, err := resolveBook(a, translation, args[0])
				if err != nil {
					return err
				}
				chapter, err := parsePositive(args[1], "chapter")
				if err != nil {
					return err
				}
				index = entities.NewVerseIndex(bookIndex, chapter-1, 0)
				if !index.IsValid() {
					return fmt.Errorf("book %s has %d chapters", args[0], entities.ChapterCount(bookIndex))
				}
			}

			if !cmd.Flags().Changed("parallel") && !noParallel {
				if parallel, err = a.Reading.ParallelTranslations(); err != nil {
					return err
				}
			}
			if noParallel {
				parallel = nil
			}

			if err := printChapter(cmd.OutOrStdout(), a, translation, parallel, index); err != nil {
				return err
			}
			return a.Reading.SaveCurrentVerseIndex(index)
		}),
	}
	cmd.Flags().StringVarP(&translation, "translation", "t", "", "translation to read instead of the current one")
	cmd.Flags().StringSliceVarP(&parallel, "parallel", "p", nil, "translations to print below each verse (default: the saved ones)")
	cmd.Flags().BoolVar(&noParallel, "no-parallel", false, "do not print parallel translations")
	return cmd
}

type verseMarks struct {
	bookmarked bool
	color      entities.HighlightColor
	note       string
}

func chapterMarks(a *app.App, bookIndex, chapterIndex int) (map[int]*verseMarks, error) {
	marks := map[int]*verseMarks{}
	mark := func(index entities.VerseIndex) *verseMarks {
		m, ok := marks[index.VerseIndex]
		if !ok {
			m = &verseMarks{}
			marks[index.VerseIndex] = m
		}
		return m
	}

	bookmarks, err := a.Bookmarks.ReadChapter(bookIndex, chapterIndex)
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		mark(b.Index()).bookmarked = true
	}
	highlights, err := a.Highlights.ReadChapter(bookIndex, chapterIndex)
	if err != nil {
		return nil, err
	}
	for _, h := range highlights {
		mark(h.Index()).color = h.Color
	}
	notes, err := a.Notes.ReadChapter(bookIndex, chapterIndex)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		mark(n.Index()).note = n.Note
	}
	return marks, nil
}

func printChapter(w io.Writer, a *app.App, translation string, parallel []string, index entities.VerseIndex) error {
	verses, err := a.Reading.ReadVerses(translation, parallel, index.BookIndex, index.ChapterIndex)
	if err != nil {
		return err
	}
	if len(verses) == 0 {
		return fmt.Errorf("%s has no text for this chapter; is it downloaded?", translation)
	}
	names, err := a.Reading.ReadBookNames(translation)
	if err != nil {
		return err
	}
	marks, err := chapterMarks(a, index.BookIndex, index.ChapterIndex)
	if err != nil {
		return err
	}

	printTitle(w, fmt.Sprintf("%s %d (%s)", bookName(names, index.BookIndex), index.ChapterIndex+1, translation))
	fmt.Fprintln(w)

	for _, verse := range verses {
		if verse.Text.Text == "" {
			continue
		}
		m := marks[verse.VerseIndex.VerseIndex]
		if m == nil {
			m = &verseMarks{}
		}

		prefix := numberStyle.Render(fmt.Sprint(verse.VerseIndex.VerseIndex + 1))
		if m.bookmarked {
			prefix += "*"
		}
		fmt.Fprintf(w, "%s %s\n", prefix, highlightStyle(m.color).Render(verse.Text.Text))
		for _, p := range verse.Parallel {
			if p.Text == "" {
				continue
			}
			fmt.Fprintf(w, "     %s\n", dimStyle.Render(p.TranslationShortName+": "+p.Text))
		}
		if m.note != "" {
			fmt.Fprintf(w, "     %s\n", dimStyle.Render("Note: "+m.note))
		}
	}
	return nil
}
