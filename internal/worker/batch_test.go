package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/truthcheck/internal/model"
)

// mockChecker implements ClaimChecker
type mockChecker struct {
	failOn string
}

func (m *mockChecker) CheckClaim(ctx context.Context, claim string) (*model.AggregatedResult, error) {
	time.Sleep(5 * time.Millisecond) // Simulate work
	if claim == m.failOn {
		return nil, &model.TransportError{Service: model.ServiceFactCheck, Err: errors.New("connection refused")}
	}
	return &model.AggregatedResult{AnalysisText: "verdict for " + claim}, nil
}

// mockRecorder implements Recorder
type mockRecorder struct {
	mu     sync.Mutex
	claims []string
	err    error
}

func (m *mockRecorder) Append(ctx context.Context, claim, analysis, references string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.claims = append(m.claims, claim)
	return nil
}

func writeClaimsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessClaims(t *testing.T) {
	recorder := &mockRecorder{}
	processor := NewBatchProcessor(&mockChecker{}, recorder, 2)

	claims := []string{"The Earth is flat", "Water boils at 100C", "The moon is cheese"}
	results := processor.ProcessClaims(context.Background(), claims)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Claim != claims[i] {
			t.Errorf("expected results in input order, got %q at %d", res.Claim, i)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Claim, res.Error)
		}
		if res.Result == nil || res.Result.AnalysisText != "verdict for "+claims[i] {
			t.Errorf("unexpected result for %q: %+v", res.Claim, res.Result)
		}
	}

	if len(recorder.claims) != 3 {
		t.Errorf("expected 3 recorded claims, got %d", len(recorder.claims))
	}
}

func TestBatchProcessor_FailedCheckIsNotRecorded(t *testing.T) {
	recorder := &mockRecorder{}
	processor := NewBatchProcessor(&mockChecker{failOn: "bad"}, recorder, 2)

	results := processor.ProcessClaims(context.Background(), []string{"good", "bad"})

	if results[1].Error == nil {
		t.Fatal("expected error for failing claim")
	}
	if !model.IsTransport(results[1].Error) {
		t.Errorf("expected transport error, got %v", results[1].Error)
	}
	if results[1].Result != nil {
		t.Error("expected nil result on error")
	}
	if len(recorder.claims) != 1 || recorder.claims[0] != "good" {
		t.Errorf("expected only the successful claim recorded, got %v", recorder.claims)
	}
}

func TestBatchProcessor_RecorderError(t *testing.T) {
	recorder := &mockRecorder{err: errors.New("disk full")}
	processor := NewBatchProcessor(&mockChecker{}, recorder, 1)

	results := processor.ProcessClaims(context.Background(), []string{"claim"})
	if results[0].Error == nil {
		t.Fatal("expected recorder error to surface")
	}
	if results[0].Result == nil {
		t.Error("expected the check result to be kept even if recording failed")
	}
}

func TestBatchProcessor_NilRecorder(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, nil, 2)
	results := processor.ProcessClaims(context.Background(), []string{"a", "b"})
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error: %v", res.Error)
		}
	}
}

// blockingChecker holds every check until ctx is done
type blockingChecker struct {
	started chan struct{}
}

func (b *blockingChecker) CheckClaim(ctx context.Context, claim string) (*model.AggregatedResult, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBatchProcessor_CancelMidBatch(t *testing.T) {
	checker := &blockingChecker{started: make(chan struct{}, 1)}
	recorder := &mockRecorder{}
	processor := NewBatchProcessor(checker, recorder, 1)

	claims := make([]string, 20)
	for i := range claims {
		claims[i] = "claim " + string(rune('a'+i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-checker.started
		cancel()
	}()

	done := make(chan []*ClaimResult)
	go func() { done <- processor.ProcessClaims(ctx, claims) }()

	var results []*ClaimResult
	select {
	case results = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not stop after cancellation")
	}

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, res := range results {
		if res.Claim != claims[i] || res.Index != i {
			t.Errorf("result %d out of order: %+v", i, res)
		}
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("claim %q: expected context.Canceled, got %v", res.Claim, res.GetError())
		}
	}
	if len(recorder.claims) != 0 {
		t.Errorf("expected nothing recorded, got %v", recorder.claims)
	}
}

func TestBatchProcessor_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&blockingChecker{started: make(chan struct{}, 1)}, nil, 2)
	results := processor.ProcessClaims(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.GetError(), context.Canceled) {
			t.Errorf("claim %q: expected context.Canceled, got %v", res.Claim, res.GetError())
		}
	}
}

func TestBatchProcessor_ProcessClaims_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, nil, 2)

	results := processor.ProcessClaims(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadClaimsFromFile(t *testing.T) {
	path := writeClaimsFile(t, "The Earth is flat\n# comment\nWater is wet\n   \n  Cats are mammals   ")

	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}

	expected := []string{"The Earth is flat", "Water is wet", "Cats are mammals"}
	if len(claims) != len(expected) {
		t.Fatalf("expected %d claims, got %d", len(expected), len(claims))
	}
	for i, claim := range claims {
		if claim != expected[i] {
			t.Errorf("expected claim %q at index %d, got %q", expected[i], i, claim)
		}
	}
}

func TestReadClaimsFromFile_Deduplication(t *testing.T) {
	path := writeClaimsFile(t, "The Earth is flat\nThe Earth is flat\n")

	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("expected 1 claim after deduplication, got %d", len(claims))
	}
}

func TestReadClaimsFromFile_NonExistent(t *testing.T) {
	_, err := ReadClaimsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeClaimsFile(t, "a\nb\n# comment\n\nc\n")

	processor := NewBatchProcessor(&mockChecker{}, nil, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockChecker{}, nil, 2)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestClaimResult_GetError(t *testing.T) {
	r1 := &ClaimResult{Claim: "a"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("check failed")
	r2 := &ClaimResult{Claim: "a", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
