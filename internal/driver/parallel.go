package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"tao/internal/trace"
)

// LowerFiles lowers every path concurrently, at most opts.Jobs at a time.
// Results come back in input order. A failing file does not stop the
// others; the returned error joins every per-file error. Only cancellation
// of ctx ends the run early.
func LowerFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopeRun, "lower_files")
	span.WithExtra("files", strconv.Itoa(len(paths))).
		WithExtra("jobs", strconv.Itoa(jobs))
	defer span.End("")

	for _, p := range paths {
		emit(opts.Sink, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	errs := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := LowerFile(gctx, path, opts)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}
