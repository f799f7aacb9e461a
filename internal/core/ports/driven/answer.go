package driven

import "context"

// AnswerService generates a free-text answer to a question grounded on
// retrieved context passages. The core hands it the question and the
// ordered context and does not validate the output beyond trimming a
// leading "Answer:" label if the model echoes the prompt template.
type AnswerService interface {
	// Answer produces an answer using the provider's chat-style API.
	// Returns domain.ErrAnswerUnsupported (possibly wrapped) when the
	// provider cannot serve chat-style calls; callers then fall back
	// to Generate with a formatted prompt.
	Answer(ctx context.Context, question string, contexts []string) (string, error)

	// Generate produces a completion for a fully formatted prompt.
	// This is the declared fallback path for Answer.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
