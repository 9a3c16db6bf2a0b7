package services

import "context"

// RevisionRequest carries one user instruction into the revision workflow.
// UserID is the authenticated identity, threaded explicitly - never read
// from ambient state.
type RevisionRequest struct {
	UserID    string `json:"-"`
	ProjectID string `json:"-"`
	Message   string `json:"message"`
}

// RevisionService coordinates the end-to-end revision workflow: credit
// debit, prompt enhancement, code generation, version commit, and the
// conversation log entries around them.
type RevisionService interface {
	// MakeRevision runs one revision attempt. On success exactly one new
	// version is persisted and the project's current pointer moves to it.
	// Post-debit failures refund the debit before returning.
	MakeRevision(ctx context.Context, req *RevisionRequest) error
}
