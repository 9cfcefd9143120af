package generation

import "context"

// GenerationService defines the write side of the episode lifecycle
type GenerationService interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// Ensure Service implements GenerationService interface
var _ GenerationService = (*Service)(nil)
