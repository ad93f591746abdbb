// Package batch runs transcript parsing across many files with a
// bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/model"
	"github.com/taxresolve/transcript-engine/internal/service"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 5

// Options configures a batch run.
type Options struct {
	FilingContext *model.FilingContext
	Workers       int
	ShowProgress  bool
}

// Result is the outcome of parsing one file. Exactly one of Forms,
// Account, or Err is meaningful.
type Result struct {
	Err      error
	Account  *model.AccountTranscriptRecord
	FileName string
	Forms    []model.ParsedForm
}

// Processor fans transcript files out to parser workers.
type Processor struct {
	parser        service.DocumentParser
	accountParser service.AccountParser
}

// NewProcessor builds a batch processor over the two parser services.
func NewProcessor(p service.DocumentParser, ap service.AccountParser) *Processor {
	return &Processor{parser: p, accountParser: ap}
}

// accountTranscript matches text that is an account transcript rather
// than a wage and income transcript.
var accountTranscript = regexp.MustCompile(`(?i)ACCOUNT\s+BALANCE|TRANSACTIONS\s*\n|ACCOUNT\s+TRANSCRIPT`)

// ProcessDirectory parses every .txt file under dir and returns the
// per-file results in file name order plus run statistics.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string, opts Options) ([]Result, service.BatchStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, service.BatchStats{}, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, service.BatchStats{}, fmt.Errorf("no transcript files found in %s", dir)
	}

	start := time.Now()
	results := p.ProcessFiles(ctx, files, opts)

	stats := service.BatchStats{TotalFiles: len(files)}
	for _, r := range results {
		if r.Err != nil {
			stats.FailedFiles++
			common.LogError(r.Err, "file processing failed", common.Fields{"file": r.FileName})
			continue
		}
		stats.ParsedFiles++
		stats.TotalForms += len(r.Forms)
	}
	stats.Duration = time.Since(start)
	common.LogInfo("batch complete", common.Fields{
		"total":  stats.TotalFiles,
		"parsed": stats.ParsedFiles,
		"failed": stats.FailedFiles,
		"forms":  stats.TotalForms,
	})
	return results, stats, nil
}

// ProcessFiles parses the given files concurrently. Results come back
// sorted by file name; per-file failures are reported in the result,
// not returned as an error.
func (p *Processor) ProcessFiles(ctx context.Context, files []string, opts Options) []Result {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(files) {
		workers = len(files)
	}

	workChan := make(chan string, len(files))
	for _, f := range files {
		workChan <- f
	}
	close(workChan)

	resultsChan := make(chan Result, len(files))

	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Parsing transcripts..."))
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			p.worker(ctx, workerID, workChan, resultsChan, bar, opts)
		}(i)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]Result, 0, len(files))
	for r := range resultsChan {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].FileName < results[j].FileName
	})
	return results
}

func (p *Processor) worker(ctx context.Context, workerID int, workChan <-chan string, resultsChan chan<- Result, bar *progressbar.ProgressBar, opts Options) {
	for path := range workChan {
		select {
		case <-ctx.Done():
			return
		default:
		}

		slog.Debug("worker parsing file", "worker_id", workerID, "file", path)
		resultsChan <- p.processFile(ctx, path, opts)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
}

func (p *Processor) processFile(ctx context.Context, path string, opts Options) Result {
	name := filepath.Base(path)

	var data []byte
	err := common.WithRetry(ctx, func() error {
		var readErr error
		data, readErr = os.ReadFile(path)
		if readErr != nil {
			return &common.RetryableError{Err: fmt.Errorf("%w: %v", common.ErrUnreadableFile, readErr), Retryable: true}
		}
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 50 * time.Millisecond})
	if err != nil {
		return Result{FileName: name, Err: err}
	}

	text := string(data)
	if accountTranscript.MatchString(text) {
		rec, parseErr := p.accountParser.ParseFile(text, name)
		if parseErr != nil {
			return Result{FileName: name, Err: parseErr}
		}
		return Result{FileName: name, Account: rec}
	}

	forms, parseErr := p.parser.ParseDocument(ctx, text, name, opts.FilingContext)
	if parseErr != nil {
		return Result{FileName: name, Err: parseErr}
	}
	return Result{FileName: name, Forms: forms}
}
