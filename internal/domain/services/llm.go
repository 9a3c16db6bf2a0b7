package services

import "context"

// Completer is the boundary to the external text-generation service.
// Single-shot request/response, no streaming. Implementations must honor
// context cancellation so callers can bound the call with a deadline.
type Completer interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}
