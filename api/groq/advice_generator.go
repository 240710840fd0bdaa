package groq

import "context"

// AdviceGenerator defines the interface for external advice-text generation.
type AdviceGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
