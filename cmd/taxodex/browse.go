package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/taxodex/internal/browser"
)

const browseHelp = `commands:
  tab <literature|taxonomy|samples|about>  switch view
  search [text]                            filter the current collection (empty clears)
  select <id>                              show a record of the current collection
  deselect                                 clear the selection
  show                                     redraw the current view
  help                                     this text
  quit                                     leave`

func browseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse the three collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.searcher(cmd.Context())
			if err != nil {
				return err
			}
			ctrl := browser.New(s, a.logger)
			return runBrowse(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// repl renders controller changes and dispatches input lines.
type repl struct {
	ctrl *browser.Controller
	mu   sync.Mutex
	out  io.Writer
}

func runBrowse(ctx context.Context, ctrl *browser.Controller, in io.Reader, out io.Writer) error {
	r := &repl{ctrl: ctrl, out: out}
	unsubscribe := ctrl.Subscribe(r.onChange)
	defer unsubscribe()

	ctrl.Mount(ctx)

	sc := bufio.NewScanner(in)
	r.printf("> ")
	for sc.Scan() {
		if done := r.exec(ctx, sc.Text()); done {
			return nil
		}
		r.printf("> ")
	}
	return sc.Err() //nolint:wrapcheck // scanner error on stdin
}

// exec runs one command line and reports whether the session should end.
func (r *repl) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit", "q":
		return true
	case "help", "?":
		r.printf("%s\n", browseHelp)
	case "tab":
		tab, err := browser.ParseTab(arg)
		if err != nil {
			r.printf("%v\n", err)
			return false
		}
		_ = r.ctrl.SetTab(tab)
	case "search":
		kind, ok := r.ctrl.Tab().Kind()
		if !ok {
			r.printf("the %s tab has no records\n", r.ctrl.Tab())
			return false
		}
		_ = r.ctrl.SetQuery(ctx, kind, arg)
	case "select":
		kind, ok := r.ctrl.Tab().Kind()
		if !ok {
			r.printf("the %s tab has no records\n", r.ctrl.Tab())
			return false
		}
		rec, found := r.ctrl.Find(kind, arg)
		if !found {
			r.printf("no %s record %q in the current results\n", kind, arg)
			return false
		}
		r.ctrl.Select(rec, kind)
	case "deselect":
		r.ctrl.Deselect()
	case "show":
		r.render(r.ctrl.Tab())
		if rec, kind, ok := r.ctrl.Selection(); ok {
			r.locked(func() { writeDetail(r.out, kind, rec) })
		}
	default:
		r.printf("unknown command %q (try help)\n", cmd)
	}
	return false
}

// onChange redraws whatever part of the screen the event touched.
func (r *repl) onChange(ev browser.Event) {
	switch ev.Change {
	case browser.ChangeDisplay:
		if kind, ok := r.ctrl.Tab().Kind(); ok && kind == ev.Kind {
			r.render(r.ctrl.Tab())
		}
	case browser.ChangeTab:
		r.render(r.ctrl.Tab())
	case browser.ChangeSelection:
		rec, kind, ok := r.ctrl.Selection()
		if !ok {
			r.printf("selection cleared\n")
			return
		}
		r.locked(func() { writeDetail(r.out, kind, rec) })
	case browser.ChangeLoading:
	}
}

func (r *repl) render(tab browser.Tab) {
	kind, ok := tab.Kind()
	if !ok {
		r.printf("%s\n", aboutText)
		return
	}
	recs := r.ctrl.Displayed(kind)
	query := r.ctrl.Query(kind)
	loading := r.ctrl.Loading()
	r.locked(func() { writeList(r.out, kind, query, loading, recs) })
}

func (r *repl) printf(format string, args ...any) {
	r.locked(func() { _, _ = fmt.Fprintf(r.out, format, args...) })
}

func (r *repl) locked(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}
