package clone

import "sync"

// Result accounts for every issue considered by a clone operation. Total is
// fixed at construction; every considered issue lands in exactly one of the
// failed, skipped, or created buckets, with created derived as the remainder.
type Result struct {
	mu      sync.Mutex
	total   int
	failed  int
	skipped int
}

// Summary is an immutable snapshot of a Result.
type Summary struct {
	Total   int `json:"total"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Created int `json:"created"`
}

// NewResult creates a Result for a batch of the given size.
func NewResult(total int) *Result {
	return &Result{total: total}
}

// MarkFailed records one failed creation attempt.
func (r *Result) MarkFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

// MarkSkipped records one issue that was never sent to creation.
func (r *Result) MarkSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

// Snapshot returns the current counts. Created is total minus failed minus
// skipped.
func (r *Result) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		Total:   r.total,
		Failed:  r.failed,
		Skipped: r.skipped,
		Created: r.total - r.failed - r.skipped,
	}
}
