package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tao/internal/diag"
	"tao/internal/diagfmt"
	"tao/internal/driver"
	"tao/internal/mir"
	"tao/internal/ui"
)

type lowerFlags struct {
	entry      string
	jobs       int
	uiMode     string
	cache      bool
	watch      bool
	typeColumn int
	spans      bool
	diagFormat string
	uses       bool
}

func newLowerCmd() *cobra.Command {
	var f lowerFlags
	cmd := &cobra.Command{
		Use:   "lower FILE...",
		Short: "Lower HIR documents to MIR and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLower(cmd, args, f)
		},
	}
	cmd.Flags().StringVar(&f.entry, "entry", "", "entry definition (default: the document's entry, then \"main\")")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "files lowered in parallel (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&f.uiMode, "ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse lowered output from the disk cache")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "lower again whenever an input changes")
	cmd.Flags().IntVar(&f.typeColumn, "type-column", 0, "align node types at this column in dumps")
	cmd.Flags().BoolVar(&f.spans, "spans", false, "show node spans in dumps")
	cmd.Flags().StringVar(&f.diagFormat, "diag-format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().BoolVar(&f.uses, "uses", false, "list where every instance is referenced (bypasses the cache)")
	return cmd
}

func runLower(cmd *cobra.Command, paths []string, f lowerFlags) error {
	flags := cmd.Root().PersistentFlags()
	quiet, _ := flags.GetBool("quiet")
	timings, _ := flags.GetBool("timings")
	maxDiagnostics, _ := flags.GetInt("max-diagnostics")

	cfg, _, err := loadConfig(".")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("entry") && cfg.Lower.Entry != "" {
		f.entry = cfg.Lower.Entry
	}
	if !cmd.Flags().Changed("jobs") && cfg.Lower.Jobs > 0 {
		f.jobs = cfg.Lower.Jobs
	}
	if !cmd.Flags().Changed("cache") {
		f.cache = f.cache || cfg.Lower.Cache
	}
	if !flags.Changed("max-diagnostics") && cfg.Lower.MaxDiagnostics > 0 {
		maxDiagnostics = cfg.Lower.MaxDiagnostics
	}
	switch f.diagFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid --diag-format %q (expected pretty|json)", f.diagFormat)
	}
	mode, err := readUIMode(f.uiMode)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Entry:          f.entry,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           f.jobs,
		Timings:        timings,
		Uses:           f.uses,
		Dump:           mir.DumpOptions{TypeColumn: f.typeColumn, Spans: f.spans},
	}
	if f.cache {
		cache, err := driver.OpenDiskCache("tao")
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		opts.Cache = cache
	}

	out := &lowerOutput{
		stdout:     cmd.OutOrStdout(),
		stderr:     cmd.ErrOrStderr(),
		quiet:      quiet,
		timings:    timings,
		diagFormat: f.diagFormat,
	}
	run := func(ctx context.Context, files []string) error {
		var (
			results []*driver.Result
			err     error
		)
		if shouldUseTUI(mode, quiet) {
			results, err = lowerWithUI(ctx, files, opts)
		} else {
			results, err = driver.LowerFiles(ctx, files, opts)
		}
		out.print(results)
		return err
	}

	ctx := cmd.Context()
	err = run(ctx, paths)
	if !f.watch {
		return err
	}
	if err != nil {
		fmt.Fprintf(out.stderr, "tao: %v\n", err)
	}
	if !quiet {
		fmt.Fprintf(out.stderr, "watching %d file(s)\n", len(paths))
	}
	werr := driver.Watch(ctx, paths, func(changed []string) error {
		if err := run(ctx, changed); err != nil {
			fmt.Fprintf(out.stderr, "tao: %v\n", err)
		}
		return nil
	})
	if errors.Is(werr, context.Canceled) {
		return nil
	}
	return werr
}

type lowerOutcome struct {
	results []*driver.Result
	err     error
}

// lowerWithUI runs LowerFiles while a progress view consumes its events.
func lowerWithUI(ctx context.Context, files []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcome := make(chan lowerOutcome, 1)
	go func() {
		o := opts
		o.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.LowerFiles(ctx, files, o)
		close(events)
		outcome <- lowerOutcome{results: res, err: err}
	}()

	program := tea.NewProgram(ui.NewProgressModel("lowering", files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// drain whatever the view did not consume after an early quit
	go func() {
		for range events {
		}
	}()
	o := <-outcome
	if uiErr != nil {
		return o.results, uiErr
	}
	return o.results, o.err
}

type lowerOutput struct {
	stdout     io.Writer
	stderr     io.Writer
	quiet      bool
	timings    bool
	diagFormat string
}

var headerColor = color.New(color.Bold, color.FgCyan)

func (o *lowerOutput) print(results []*driver.Result) {
	multi := len(results) > 1
	for _, res := range results {
		if res == nil {
			continue
		}
		o.printDiagnostics(res)
		if res.Dump == "" {
			continue
		}
		if multi && !o.quiet {
			suffix := ""
			if res.Cached {
				suffix = " (cached)"
			}
			fmt.Fprintln(o.stdout, headerColor.Sprintf("== %s%s ==", res.Path, suffix))
		}
		fmt.Fprint(o.stdout, res.Dump)
		printUses(o.stdout, res)
		if multi {
			fmt.Fprintln(o.stdout)
		}
	}
	if o.timings {
		printTimings(o.stderr, results)
	}
}

func (o *lowerOutput) printDiagnostics(res *driver.Result) {
	bag := res.Bag
	if bag == nil || bag.Len() == 0 {
		return
	}
	if o.quiet || o.timings {
		// timings are printed as a table instead
		filtered := diag.NewBag(bag.Len())
		for _, d := range bag.Items() {
			if d.Code == diag.ObsTimings || (o.quiet && d.Severity < diag.SevError) {
				continue
			}
			filtered.Add(d)
		}
		bag = filtered
	}
	bag.Sort()
	if o.diagFormat == "json" {
		if err := diagfmt.JSON(o.stderr, bag, res.Files, diagfmt.JSONOpts{IncludeNotes: true}); err != nil {
			fmt.Fprintf(o.stderr, "tao: %v\n", err)
		}
		return
	}
	diagfmt.Pretty(o.stderr, bag, res.Files, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		ShowNotes: !o.quiet,
	})
}

// printUses lists, per instance, the definitions that reference it.
func printUses(out io.Writer, res *driver.Result) {
	if res.Uses == nil || res.Program == nil {
		return
	}
	fmt.Fprintln(out, "uses:")
	for _, entry := range res.Uses.Sorted() {
		fmt.Fprintf(out, "  %s\n", res.Program.Name(entry.Def))
		for _, site := range entry.UseSites {
			fmt.Fprintf(out, "    <- %s @%s\n", res.Program.Name(site.Caller), site.Span)
		}
	}
}
