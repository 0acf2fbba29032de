package driver

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tao/internal/diag"
	"tao/internal/hir"
	"tao/internal/hirfile"
	"tao/internal/mir"
	"tao/internal/mono"
	"tao/internal/observ"
	"tao/internal/source"
	"tao/internal/trace"
)

// ErrInternal marks failures caused by the compiler rather than the input:
// contract violations raised while lowering and output that fails
// validation.
var ErrInternal = errors.New("internal compiler error")

// Options configures lowering runs.
type Options struct {
	// Entry overrides the document's entry; when both are empty
	// mono.DefaultEntry is used.
	Entry          string
	MaxDiagnostics int
	// Jobs bounds LowerFiles parallelism; <= 0 means GOMAXPROCS.
	Jobs  int
	Cache *DiskCache
	Sink  ProgressSink
	Dump  mir.DumpOptions
	// Timings adds an ObsTimings diagnostic to every result.
	Timings bool
	// Uses records where every instance is referenced. Cache hits carry no
	// use map, so Uses bypasses the cache.
	Uses bool
}

// Result is the outcome of lowering one document.
type Result struct {
	Path  string
	RunID uuid.UUID
	// Program is nil on cache hits and on failure.
	Program *mir.Program
	Dump    string
	Bag     *diag.Bag
	Files   *source.FileSet
	Timing  observ.Report
	Cached  bool
	// Uses is set when Options.Uses was.
	Uses *mono.InstantiationMap
}

// LowerFile loads, lowers, validates and dumps one document. The returned
// Result is never nil; on failure its Bag explains why and the error says
// which step failed.
func LowerFile(ctx context.Context, path string, opts Options) (*Result, error) {
	res := &Result{
		Path:  path,
		RunID: uuid.New(),
		Bag:   diag.NewBag(opts.MaxDiagnostics),
		Files: source.NewFileSet(),
	}
	ctx, span := trace.StartFile(ctx, path)
	span.WithExtra("run_id", res.RunID.String())

	timer := observ.NewTimer()
	err := lowerInto(ctx, res, timer, opts)
	res.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{
			Path:    path,
			RunID:   res.RunID.String(),
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
		})
	}
	if err == nil && res.Cached {
		span.End("cached")
	} else {
		span.EndErr(err)
	}
	return res, err
}

func lowerInto(ctx context.Context, res *Result, timer *observ.Timer, opts Options) error {
	r := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	stage := func(st Stage, fn func() error) error {
		emit(opts.Sink, Event{File: res.Path, Stage: st, Status: StatusWorking})
		start := time.Now()
		_, span := trace.Start(ctx, trace.ScopeStage, string(st))
		err := timer.Track(string(st), fn)
		span.EndErr(err)
		if err != nil {
			emit(opts.Sink, Event{File: res.Path, Stage: st, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			return err
		}
		return nil
	}

	var (
		mod  *hirfile.Module
		prog *mir.Program
		key  Digest
	)
	if err := stage(StageLoad, func() error {
		file, err := res.Files.Load(res.Path)
		if err != nil {
			diag.ReportError(r, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("%s: %v", res.Path, err)).Emit()
			return err
		}
		key = CacheKey(res.Files.Get(file).Hash, opts.Entry, opts.Dump)
		cache := opts.Cache
		if opts.Uses {
			cache = nil
		}
		if hit, err := lookupCache(cache, key, res); err != nil {
			diag.ReportWarning(r, diag.IOCacheError, source.Span{}, fmt.Sprintf("cache read: %v", err)).Emit()
		} else if hit {
			trace.Point(ctx, trace.ScopeFile, "cache_hit", hex.EncodeToString(key[:8]))
			return nil
		}
		mod, err = hirfile.LoadFile(res.Files, file, r)
		return err
	}); err != nil {
		return err
	}
	if res.Cached {
		emit(opts.Sink, Event{File: res.Path, Stage: StageDump, Status: StatusCached})
		return nil
	}

	entry := opts.Entry
	if entry == "" {
		entry = mod.Entry
	}
	entrySpan := res.Files.Span(mod.File)
	if err := stage(StageLower, func() error {
		var err error
		mopts := mono.Options{Entry: entry}
		if opts.Uses {
			res.Uses = mono.NewInstantiationMap()
			mopts.Recorder = mono.NewInstantiationMapRecorder(res.Uses)
		}
		prog, err = lowerProgram(ctx, mod.Program, mopts)
		switch {
		case err == nil:
		case errors.Is(err, mono.ErrEntryNotFound):
			diag.ReportError(r, diag.MonoEntryNotFound, entrySpan, err.Error()).Emit()
		case errors.Is(err, mono.ErrGenericEntry):
			diag.ReportError(r, diag.MonoGenericEntry, entrySpan, err.Error()).Emit()
		default:
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: %w", ErrInternal, err)
			}
			diag.ReportError(r, diag.MonoInternal, entrySpan, err.Error()).Emit()
		}
		return err
	}); err != nil {
		return err
	}

	if err := stage(StageValidate, func() error {
		if err := mir.Validate(prog); err != nil {
			diag.ReportError(r, diag.MonoInvalidOutput, entrySpan, err.Error()).Emit()
			return fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := stage(StageDump, func() error {
		var buf bytes.Buffer
		if err := mir.Dump(&buf, prog, opts.Dump); err != nil {
			return err
		}
		res.Program, res.Dump = prog, buf.String()
		return nil
	}); err != nil {
		return err
	}

	if opts.Cache != nil {
		payload := &DiskPayload{
			RunID:   res.RunID.String(),
			Path:    res.Path,
			Entry:   entry,
			Dump:    res.Dump,
			Globals: len(prog.Globals),
			Types:   prog.Types.Len(),
			Timing:  timer.Report(),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			diag.ReportWarning(r, diag.IOCacheError, source.Span{}, fmt.Sprintf("cache write: %v", err)).Emit()
		}
	}
	emit(opts.Sink, Event{File: res.Path, Stage: StageDump, Status: StatusDone})
	return nil
}

func lookupCache(c *DiskCache, key Digest, res *Result) (bool, error) {
	if c == nil {
		return false, nil
	}
	var payload DiskPayload
	hit, err := c.Get(key, &payload)
	if err != nil || !hit {
		return false, err
	}
	res.Dump = payload.Dump
	res.Cached = true
	return true, nil
}

// lowerProgram runs the pass and converts contract violations into
// ErrInternal errors carrying the full violation.
func lowerProgram(ctx context.Context, prog *hir.Program, opts mono.Options) (out *mir.Program, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ce, ok := r.(*mono.ContractError)
		if !ok {
			panic(r)
		}
		out, err = nil, fmt.Errorf("%w: %w", ErrInternal, ce)
	}()
	return mono.Lower(ctx, prog, opts)
}
