// Package executor evaluates parsed queries against document collections:
// per-file execution strategies, fan-out across files above a threshold,
// result assembly, and the ambiguity pre-flight.
package executor

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebookgo/clock"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/panjf2000/ants/v2"

	"github.com/expocli/expocli/api"
	"github.com/expocli/expocli/internal/logging"
	"github.com/expocli/expocli/internal/xmltree"
)

const (
	// defaultParallelThreshold is the file count at which a worker pool
	// starts paying for itself.
	defaultParallelThreshold = 5
	// defaultWorkerCap bounds the pool regardless of hardware parallelism.
	defaultWorkerCap = 16
	// fallbackWorkers is the pool size when parallelism is undetectable.
	fallbackWorkers = 4
	// defaultProgressCadence is the polling interval for progress
	// observers during threaded runs.
	defaultProgressCadence = time.Second
)

// Executor runs queries. Construct with New; the zero value is unusable.
// One Executor is safe for concurrent use since each run keeps its own
// state.
type Executor struct {
	fs        billy.Filesystem
	loader    *xmltree.Loader
	log       *logging.Logger
	clock     clock.Clock
	threshold int
	workerCap int
	cadence   time.Duration
}

// Option adjusts an Executor at construction.
type Option func(*Executor)

// WithFilesystem replaces the host filesystem; tests use memfs.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(e *Executor) {
		e.fs = fs
		e.loader = xmltree.NewLoader(fs)
	}
}

// WithLogger routes warnings somewhere other than the default logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithClock substitutes the progress clock; tests use clock.NewMock().
func WithClock(c clock.Clock) Option {
	return func(e *Executor) { e.clock = c }
}

// WithWorkerCap overrides the worker-pool bound.
func WithWorkerCap(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workerCap = n
		}
	}
}

// WithParallelThreshold overrides the file count that enables threading.
func WithParallelThreshold(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.threshold = n
		}
	}
}

// WithProgressCadence overrides the progress polling interval.
func WithProgressCadence(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.cadence = d
		}
	}
}

func New(opts ...Option) *Executor {
	fs := osfs.New("/")
	e := &Executor{
		fs:        fs,
		loader:    xmltree.NewLoader(fs),
		log:       logging.Default(),
		clock:     clock.New(),
		threshold: defaultParallelThreshold,
		workerCap: defaultWorkerCap,
		cadence:   defaultProgressCadence,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute runs one query. Nothing at this layer is fatal: path problems,
// unreadable files, and unresolved fields degrade to warnings or empty
// values, so there is no error return.
func (e *Executor) Execute(q *api.Query) ([]api.ResultRow, *api.ExecutionStats) {
	return e.ExecuteWithProgress(q, nil)
}

// ExecuteWithProgress runs one query, reporting progress. During threaded
// runs the callback is polled at the configured cadence; sequential runs
// report once per file. A final (total, total, workers) call is guaranteed.
func (e *Executor) ExecuteWithProgress(q *api.Query, progress api.ProgressFunc) ([]api.ResultRow, *api.ExecutionStats) {
	start := e.clock.Now()
	files := e.listFiles(q.FromPath)

	for _, p := range e.ambiguousFieldPaths(q, files) {
		e.log.Warnf("path %s matches multiple nodes; using first match", p)
	}

	threaded := len(files) >= e.threshold
	workers := 1
	var rows []api.ResultRow
	if threaded {
		workers = e.workerCount(len(files))
		rows = e.runParallel(q, files, workers, progress)
	} else {
		rows = e.runSequential(q, files, progress)
	}

	if len(q.OrderBy) > 0 {
		sortRows(rows, q.OrderBy[0], q.OrderDesc)
	}
	rows = applyLimit(rows, q.Limit)

	stats := &api.ExecutionStats{
		TotalFiles: len(files),
		Workers:    workers,
		Threaded:   threaded,
		Elapsed:    e.clock.Now().Sub(start),
	}
	return rows, stats
}

// listFiles resolves the FROM path to the eligible file set: the path
// itself, or the top-level eligible files of a directory, sorted for
// deterministic enumeration. Problems are warnings and yield an empty set.
func (e *Executor) listFiles(fromPath string) []string {
	info, err := e.fs.Stat(fromPath)
	if err != nil {
		e.log.Warnf("cannot access %s: %v", fromPath, err)
		return nil
	}
	if !info.IsDir() {
		if !e.loader.IsEligible(fromPath) {
			e.log.Warnf("%s is not an eligible document", fromPath)
			return nil
		}
		return []string{fromPath}
	}
	entries, err := e.fs.ReadDir(fromPath)
	if err != nil {
		e.log.Warnf("cannot list %s: %v", fromPath, err)
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := e.fs.Join(fromPath, entry.Name())
		if e.loader.IsEligible(p) {
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files
}

func (e *Executor) workerCount(fileCount int) int {
	n := runtime.NumCPU()
	if n <= 0 {
		n = fallbackWorkers
	}
	if n > e.workerCap {
		n = e.workerCap
	}
	if n > fileCount {
		n = fileCount
	}
	return n
}

func (e *Executor) runSequential(q *api.Query, files []string, progress api.ProgressFunc) []api.ResultRow {
	var rows []api.ResultRow
	for i, f := range files {
		batch, err := e.processFile(f, q)
		if err != nil {
			e.log.Warnf("skipping %s: %v", f, err)
		}
		rows = append(rows, batch...)
		if progress != nil {
			progress(i+1, len(files), 1)
		}
	}
	if progress != nil && len(files) == 0 {
		progress(0, 0, 1)
	}
	return rows
}

// runParallel distributes files across a worker pool by striding: worker k
// takes files k, k+workers, k+2*workers. Each worker accumulates a local
// batch and sends it over a channel; the collector below owns the merge, so
// no result state is shared between goroutines. A lock-free counter feeds
// the progress poller.
func (e *Executor) runParallel(q *api.Query, files []string, workers int, progress api.ProgressFunc) []api.ResultRow {
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		e.log.Errorf("worker panic: %v", v)
	}))
	if err != nil {
		e.log.Warnf("worker pool unavailable (%v); running sequentially", err)
		return e.runSequential(q, files, progress)
	}
	defer pool.Release()

	var completed atomic.Int64
	results := make(chan []api.ResultRow, workers)
	var wg sync.WaitGroup

	for k := 0; k < workers; k++ {
		stride := func(start int) func() {
			return func() {
				defer wg.Done()
				var local []api.ResultRow
				for idx := start; idx < len(files); idx += workers {
					batch, err := e.processFile(files[idx], q)
					if err != nil {
						e.log.Warnf("skipping %s: %v", files[idx], err)
					}
					local = append(local, batch...)
					completed.Add(1)
				}
				results <- local
			}
		}(k)
		wg.Add(1)
		if err := pool.Submit(stride); err != nil {
			// Pool refused the task; run this stride inline.
			stride()
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	stopPoll := make(chan struct{})
	var pollDone sync.WaitGroup
	if progress != nil {
		pollDone.Add(1)
		go e.pollProgress(&completed, len(files), workers, progress, stopPoll, &pollDone)
	}

	var rows []api.ResultRow
	for batch := range results {
		rows = append(rows, batch...)
	}

	if progress != nil {
		close(stopPoll)
		pollDone.Wait()
		progress(len(files), len(files), workers)
	}
	return rows
}

// pollProgress reports the completed counter on every clock tick until stop
// closes. The final guaranteed callback is the caller's, after this poller
// has fully stopped, so observers never see a tick after completion.
func (e *Executor) pollProgress(completed *atomic.Int64, total, workers int, fn api.ProgressFunc, stop <-chan struct{}, done *sync.WaitGroup) {
	defer done.Done()
	ticker := e.clock.Ticker(e.cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fn(int(completed.Load()), total, workers)
		case <-stop:
			return
		}
	}
}
