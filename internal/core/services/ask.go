package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// NoContextAnswer is returned when no chunk clears the relevance
// threshold. The generator is never called in that case.
const NoContextAnswer = "I don't have enough information in the provided documents to answer that."

// defaultAnswerTemplate formats the single-prompt fallback when the
// provider cannot serve chat-style calls and no prompt store is set.
const defaultAnswerTemplate = `You are a mystical fortune teller. Use the context below to answer the question in at most two sentences.
If the context does not contain the answer, say that the signs are unclear.

Context:
%s

Question: %s

Answer:`

// AskService answers questions grounded on a similarity index.
type AskService struct {
	answerer driven.AnswerService
	prompts  driven.PromptStore
	topK     int
}

// NewAskService creates an ask service. The prompt store may be nil,
// in which case the built-in answer template is used for the fallback
// path.
func NewAskService(answerer driven.AnswerService, prompts driven.PromptStore, topK int) *AskService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &AskService{
		answerer: answerer,
		prompts:  prompts,
		topK:     topK,
	}
}

// Retrieve returns the context chunks for a question, most relevant
// first, without generating an answer.
func (s *AskService) Retrieve(ctx context.Context, index driven.Index, question string) ([]domain.RetrievedChunk, error) {
	if index == nil {
		return nil, fmt.Errorf("%w: no index to query", domain.ErrInvalidInput)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	return index.Query(ctx, question, s.topK)
}

// Ask retrieves context for the question and generates an answer.
// Empty retrieval yields the fixed NoContextAnswer without touching
// the generator. A chat-incapable provider falls back to the
// single-prompt generate path.
func (s *AskService) Ask(ctx context.Context, index driven.Index, question string) (*domain.Answer, error) {
	results, err := s.Retrieve(ctx, index, question)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		logger.Debug("No chunk cleared the relevance threshold")
		return &domain.Answer{Text: NoContextAnswer}, nil
	}
	if s.answerer == nil {
		return nil, fmt.Errorf("%w: no answer provider configured", domain.ErrInvalidInput)
	}

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Chunk.Content
	}

	text, err := s.answerer.Answer(ctx, question, contexts)
	if errors.Is(err, domain.ErrAnswerUnsupported) {
		logger.Debug("Chat-style answering unsupported, falling back to generate")
		text, err = s.answerer.Generate(ctx, s.formatPrompt(contexts, question))
	}
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:     cleanAnswer(text),
		Contexts: results,
	}, nil
}

// formatPrompt fills the answer template with the joined context and
// the question.
func (s *AskService) formatPrompt(contexts []string, question string) string {
	template := defaultAnswerTemplate
	if s.prompts != nil {
		if loaded, err := s.prompts.Load(driven.PromptAnswerTemplate); err == nil {
			template = loaded
		}
	}
	return fmt.Sprintf(template, strings.Join(contexts, "\n\n"), question)
}

// cleanAnswer trims whitespace and a leading "Answer:" echo of the
// prompt template.
func cleanAnswer(text string) string {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "Answer:"); ok {
		text = strings.TrimSpace(rest)
	}
	return text
}
