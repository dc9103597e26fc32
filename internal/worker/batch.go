package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
)

// ClaimChecker checks a single claim
type ClaimChecker interface {
	CheckClaim(ctx context.Context, claim string) (*model.AggregatedResult, error)
}

// Recorder persists a successful check
type Recorder interface {
	Append(ctx context.Context, claim, analysis, references string) error
}

// ClaimJob checks one claim and records it on success
type ClaimJob struct {
	Index    int
	Claim    string
	Checker  ClaimChecker
	Recorder Recorder
}

// Execute executes the claim job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	res := &ClaimResult{Index: j.Index, Claim: j.Claim}

	result, err := j.Checker.CheckClaim(ctx, j.Claim)
	if err != nil {
		res.Error = err
		return res
	}
	res.Result = result

	if j.Recorder != nil {
		if err := j.Recorder.Append(ctx, j.Claim, result.AnalysisText, result.ReferencesMarkup); err != nil {
			res.Error = fmt.Errorf("record history: %w", err)
		}
	}
	return res
}

// ClaimResult is the outcome of a claim job
type ClaimResult struct {
	Index  int
	Claim  string
	Result *model.AggregatedResult
	Error  error
}

// GetError returns the error from the claim result
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor checks multiple claims concurrently
type BatchProcessor struct {
	checker     ClaimChecker
	recorder    Recorder
	concurrency int
}

// NewBatchProcessor creates a new batch processor. recorder may be nil.
func NewBatchProcessor(checker ClaimChecker, recorder Recorder, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		recorder:    recorder,
		concurrency: concurrency,
	}
}

// ProcessClaims checks claims concurrently and returns one result per claim in input order.
// When ctx is cancelled the pool is shut down and claims that never ran carry ctx's error.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, claim := range claims {
		submitted := pool.Submit(&ClaimJob{
			Index:    i,
			Claim:    claim,
			Checker:  b.checker,
			Recorder: b.recorder,
		})
		if !submitted {
			pool.Shutdown()
			break
		}
	}

	results := pool.Wait()

	claimResults := make([]*ClaimResult, len(claims))
	for _, result := range results {
		cr := result.(*ClaimResult)
		claimResults[cr.Index] = cr
	}
	for i, cr := range claimResults {
		if cr == nil {
			claimResults[i] = &ClaimResult{Index: i, Claim: claims[i], Error: skippedError(ctx)}
		}
	}

	return claimResults
}

func skippedError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("not checked: %w", err)
	}
	return fmt.Errorf("not checked: %w", context.Canceled)
}

// ProcessFile reads claims from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file, one per line.
// Empty lines and lines starting with # are skipped, duplicates are dropped.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
