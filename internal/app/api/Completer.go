package api

import "context"

// CompletionRequest is a single-turn instruction to a text-generation backend.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
}

// Completer produces text for a CompletionRequest.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
