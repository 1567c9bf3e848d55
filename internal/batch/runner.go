// Package batch imports many statement files concurrently with a fixed pool
// of workers.
package batch

import (
	"context"
	"sync"
	"time"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/pipeline"
)

// DefaultWorkers is used when a non-positive worker count is configured.
const DefaultWorkers = 4

// FileImporter imports one file from disk.
type FileImporter interface {
	ImportFile(ctx context.Context, path string) (*pipeline.Result, error)
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path       string
	Result     *pipeline.Result
	Err        error
	DateRange  DateRange
	Duplicates int
}

// Summary aggregates a batch run.
type Summary struct {
	Files        int
	Succeeded    int
	Failed       int
	Transactions int
	DateRange    DateRange
}

// Runner fans imports out to a worker pool.
type Runner struct {
	importer FileImporter
	workers  int
	logger   logging.Logger
}

// NewRunner creates a Runner.
func NewRunner(importer FileImporter, workers int, logger logging.Logger) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{importer: importer, workers: workers, logger: logging.OrDefault(logger)}
}

// Workers returns the pool size.
func (r *Runner) Workers() int {
	return r.workers
}

// Run imports every path and returns one result per path, in input order.
// onDone, when not nil, is called once per finished file; calls are
// serialized. Once ctx is cancelled no new file is started and the remaining
// paths report ctx.Err().
func (r *Runner) Run(ctx context.Context, paths []string, onDone func(FileResult)) []FileResult {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	workers := r.workers
	if workers > len(paths) {
		workers = len(paths)
	}
	r.logger.Info("Starting batch import",
		logging.Field{Key: logging.FieldCount, Value: len(paths)},
		logging.Field{Key: logging.FieldWorkers, Value: workers})
	start := time.Now()

	var (
		wg     sync.WaitGroup
		doneMu sync.Mutex
	)
	finish := func(res FileResult) {
		if onDone == nil {
			return
		}
		doneMu.Lock()
		defer doneMu.Unlock()
		onDone(res)
	}

	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.importOne(ctx, paths[idx])
				finish(results[idx])
			}
		}()
	}

	dispatched := 0
dispatch:
	for ; dispatched < len(paths); dispatched++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- dispatched:
		}
	}
	close(jobs)
	wg.Wait()

	for idx := dispatched; idx < len(paths); idx++ {
		results[idx] = FileResult{Path: paths[idx], Err: ctx.Err()}
		finish(results[idx])
	}

	summary := Summarize(results)
	r.logger.Info("Batch import finished",
		logging.Field{Key: logging.FieldCount, Value: summary.Succeeded},
		logging.Field{Key: "failed", Value: summary.Failed},
		logging.Field{Key: "transactions", Value: summary.Transactions},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return results
}

func (r *Runner) importOne(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}
	result, err := r.importer.ImportFile(ctx, path)
	if err != nil {
		r.logger.WithError(err).Warn("Import failed", logging.Field{Key: logging.FieldFile, Value: path})
		res.Err = err
		return res
	}

	res.Result = result
	res.DateRange = DateRangeOf(result.Transactions)
	res.Duplicates = CountDuplicates(result.Transactions)
	if res.Duplicates > 0 {
		r.logger.Warn("Potential duplicate transactions",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldImportID, Value: result.ImportID},
			logging.Field{Key: logging.FieldCount, Value: res.Duplicates})
	}
	return res
}

// Summarize aggregates results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		if res.Result != nil {
			s.Transactions += len(res.Result.Transactions)
		}
		s.DateRange = s.DateRange.Merge(res.DateRange)
	}
	return s
}
