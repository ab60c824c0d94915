package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/i474232898/flow-weather/internal/view"
)

const interactiveHelp = `Type a city to see suggestions, an empty line to search.
  /N        pick suggestion N
  /open X   open a page link or a city name
  /here     use your location
  /share    copy the page link
  /refresh  fetch the current place again
  /url      print the page link
  /quit     leave`

// terminal serializes writes from the orchestrator callbacks and the
// input loop.
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func (t *terminal) render(s view.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, "----")
	_ = view.Render(t.out, s)
}

func (t *terminal) printf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// WriteText implements view.Clipboard by printing the text.
func (t *terminal) WriteText(_ context.Context, text string) error {
	t.printf("link: %s\n", text)
	return nil
}

func (a *app) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Search as you type in the terminal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			nav, err := view.NewPageURL(a.cfg.PageURL)
			if err != nil {
				return fmt.Errorf("page url: %w", err)
			}

			term := &terminal{out: cmd.OutOrStdout()}
			o := view.New(a.api(), view.Options{
				Geolocator:      a.geolocator(),
				Navigator:       nav,
				Clipboard:       term,
				Debounce:        a.cfg.SuggestDebounce,
				SuggestionLimit: a.cfg.SuggestionLimit,
				OnChange:        term.render,
				Logger:          a.log,
			})

			term.printf("%s\n", interactiveHelp)
			o.Mount(ctx)

			err = runSession(ctx, cmd.InOrStdin(), o, nav, term)
			o.Close()
			o.Wait()
			return err
		},
	}
}

// runSession feeds input lines to the orchestrator until /quit, end of
// input or cancellation.
func runSession(ctx context.Context, in io.Reader, o *view.Orchestrator, nav *view.PageURL, term *terminal) error {
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			o.Submit(ctx)
			continue
		case "/quit", "/q":
			return nil
		case "/here":
			o.LocateMe(ctx)
			continue
		case "/share":
			o.Share(ctx)
			continue
		case "/refresh":
			o.Refresh(ctx)
			continue
		case "/url":
			term.printf("%s\n", nav.URL())
			continue
		}

		if target, ok := strings.CutPrefix(line, "/open "); ok {
			if err := openPage(ctx, o, nav, strings.TrimSpace(target)); err != nil {
				term.printf("%v\n", err)
			}
			continue
		}

		if strings.HasPrefix(line, "/") {
			n, err := strconv.Atoi(line[1:])
			if err != nil {
				term.printf("unknown command %s\n", line)
				continue
			}
			if err := o.SelectSuggestionAt(ctx, n-1); err != nil {
				term.printf("%v\n", err)
			}
			continue
		}

		o.SearchInput(ctx, line)
	}
	return scanner.Err()
}

// openPage points the page at target, a full link or a bare city name, and
// lets the orchestrator follow the city it now carries.
func openPage(ctx context.Context, o *view.Orchestrator, nav *view.PageURL, target string) error {
	if strings.Contains(target, "://") {
		if err := nav.Replace(target); err != nil {
			return fmt.Errorf("open %s: %w", target, err)
		}
	} else {
		nav.Push(target)
	}

	city := nav.City()
	if city == "" {
		return fmt.Errorf("open %s: no city in link", target)
	}
	o.Navigate(ctx, city)
	return nil
}
