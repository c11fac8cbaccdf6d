package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/ifdeflens/internal/logging"
	"github.com/yaklabco/ifdeflens/pkg/cache"
	"github.com/yaklabco/ifdeflens/pkg/directive"
	"github.com/yaklabco/ifdeflens/pkg/filetype"
	"github.com/yaklabco/ifdeflens/pkg/fsutil"
)

// Runner orchestrates multi-file directive analysis.
type Runner struct {
	// Cache holds parsed blocks keyed by path and content revision.
	// Repeated runs over unchanged files skip parsing.
	Cache *cache.Cache
}

// New creates a Runner backed by the given cache. A nil cache gets a fresh one.
func New(c *cache.Cache) *Runner {
	if c == nil {
		c = cache.New()
	}
	return &Runner{Cache: c}
}

// Run discovers files under opts.Paths and analyzes them concurrently.
// Outcomes are returned in path order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	logging.FromContext(ctx).Debug("analyzing files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
	)

	resolver := opts.resolver()
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, resolver)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	resolver *filetype.Resolver,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.AnalyzeFile(ctx, path, resolver.Resolve(path))

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// AnalyzeFile reads path and parses it for the given families through the cache.
func (r *Runner) AnalyzeFile(ctx context.Context, path string, families directive.Families) FileOutcome {
	outcome := FileOutcome{Path: path, Families: families}
	ctx = logging.WithPath(ctx, path)

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	return r.AnalyzeContent(ctx, path, content, families)
}

// AnalyzeContent parses an in-memory buffer for path through the cache.
func (r *Runner) AnalyzeContent(ctx context.Context, path string, content []byte, families directive.Families) FileOutcome {
	outcome := FileOutcome{Path: path, Families: families}
	ctx = logging.WithPath(ctx, path)

	blocks, hit, err := r.Cache.Parse(path, content, families)
	if err != nil {
		logging.FromContext(ctx).Debug("unbalanced directives", logging.FieldError, err)
		outcome.Error = err
		return outcome
	}

	outcome.Blocks = blocks
	outcome.Cached = hit
	return outcome
}
