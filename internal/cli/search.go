package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrlokans/joshua/internal/entrypoint"
	"github.com/mrlokans/joshua/internal/services"
)

func (r *root) searchCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the current translation",
		Long: `Search the current translation for verses containing every word of the
query. With --interactive, every line read from stdin is searched as it is
typed; a new line cancels the search of the previous one.`,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, inst *entrypoint.Instance, args []string) error {
			if interactive {
				return searchInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), inst)
			}
			if len(args) == 0 {
				return fmt.Errorf("a query is required")
			}

			result, err := inst.App.Searcher.Search(ctx, services.SearchRequest{Query: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			printSearchResult(cmd.OutOrStdout(), result)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries from stdin, one per line")
	return cmd
}

func searchInteractive(ctx context.Context, in io.Reader, out io.Writer, inst *entrypoint.Instance) error {
	if _, err := inst.App.Reading.RequireCurrentTranslation(); err != nil {
		return err
	}

	debouncer := services.NewQueryDebouncer(inst.App.Searcher.Search, inst.Config.Search.Debounce)

	var (
		wg      sync.WaitGroup
		printed string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for response := range debouncer.Results() {
			if response.Err != nil {
				fmt.Fprintf(out, "%s\n", dimStyle.Render("Error: "+response.Err.Error()))
				continue
			}
			printed = response.Request.Query
			printSearchResult(out, response.Result)
		}
	}()

	var last string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		last = query
		debouncer.Submit(services.SearchRequest{Query: query, InstantSearch: true})
	}
	debouncer.Close()
	wg.Wait()
	if err := scanner.Err(); err != nil {
		return err
	}

	// The input ended before the last query ran.
	if last != "" && last != printed {
		result, err := inst.App.Searcher.Search(ctx, services.SearchRequest{Query: last})
		if err != nil {
			return err
		}
		printSearchResult(out, result)
	}
	return nil
}

func printSearchResult(w io.Writer, result *services.SearchResult) {
	if result.Total == 0 {
		fmt.Fprintf(w, "No results for %q\n", result.Query)
		return
	}

	suffix := ""
	if result.Instant {
		suffix = " (first results)"
	}
	printTitle(w, fmt.Sprintf("%d verses for %q in %s%s", result.Total, result.Query, result.Translation, suffix))
	for _, group := range result.Groups {
		fmt.Fprintf(w, "\n%s\n", titleStyle.Render(group.Title))
		for _, item := range group.Items {
			fmt.Fprintf(w, "  %s\n", item.Text)
		}
	}
}
