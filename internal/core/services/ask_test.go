package services

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// fakeIndex returns canned retrieval results.
type fakeIndex struct {
	results []domain.RetrievedChunk
}

func (f *fakeIndex) Kind() domain.IndexKind { return domain.IndexKindSparse }

func (f *fakeIndex) Query(_ context.Context, _ string, topK int) ([]domain.RetrievedChunk, error) {
	if len(f.results) > topK {
		return f.results[:topK], nil
	}
	return f.results, nil
}

func (f *fakeIndex) Chunks() []domain.Chunk { return nil }

func (f *fakeIndex) Encode(io.Writer) error { return nil }

// fakeAnswerer records calls and optionally refuses chat-style calls.
type fakeAnswerer struct {
	chatUnsupported bool
	answerCalls     int
	generateCalls   int
	lastQuestion    string
	lastContexts    []string
	lastPrompt      string
}

func (f *fakeAnswerer) Answer(_ context.Context, question string, contexts []string) (string, error) {
	f.answerCalls++
	f.lastQuestion = question
	f.lastContexts = contexts
	if f.chatUnsupported {
		return "", fmt.Errorf("%w: no chat endpoint", domain.ErrAnswerUnsupported)
	}
	return "Answer: The stars favour you.", nil
}

func (f *fakeAnswerer) Generate(_ context.Context, prompt string) (string, error) {
	f.generateCalls++
	f.lastPrompt = prompt
	return "Fortune smiles upon you.", nil
}

func (f *fakeAnswerer) ModelName() string { return "fake-model" }

func (f *fakeAnswerer) Close() error { return nil }

func retrieved(contents ...string) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, len(contents))
	for i, c := range contents {
		out[i] = domain.RetrievedChunk{
			Chunk: domain.Chunk{ID: fmt.Sprintf("c%d", i), Content: c, Position: i},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestAsk_ChatPath(t *testing.T) {
	answerer := &fakeAnswerer{}
	svc := NewAskService(answerer, nil, 3)
	ix := &fakeIndex{results: retrieved("Aries: good luck today", "Taurus: be patient")}

	answer, err := svc.Ask(context.Background(), ix, "Will I have luck?")

	require.NoError(t, err)
	assert.Equal(t, "The stars favour you.", answer.Text, "leading Answer: echo is trimmed")
	assert.Len(t, answer.Contexts, 2)
	assert.Equal(t, 1, answerer.answerCalls)
	assert.Equal(t, 0, answerer.generateCalls)
	assert.Equal(t, "Will I have luck?", answerer.lastQuestion)
	assert.Equal(t, []string{"Aries: good luck today", "Taurus: be patient"}, answerer.lastContexts)
}

func TestAsk_FallsBackToGenerate(t *testing.T) {
	answerer := &fakeAnswerer{chatUnsupported: true}
	svc := NewAskService(answerer, nil, 3)
	ix := &fakeIndex{results: retrieved("Aries: good luck today")}

	answer, err := svc.Ask(context.Background(), ix, "Will I have luck?")

	require.NoError(t, err)
	assert.Equal(t, "Fortune smiles upon you.", answer.Text)
	assert.Equal(t, 1, answerer.answerCalls)
	assert.Equal(t, 1, answerer.generateCalls)
	assert.Contains(t, answerer.lastPrompt, "Aries: good luck today")
	assert.Contains(t, answerer.lastPrompt, "Will I have luck?")
}

func TestAsk_EmptyRetrievalSkipsGenerator(t *testing.T) {
	answerer := &fakeAnswerer{}
	svc := NewAskService(answerer, nil, 3)
	ix := &fakeIndex{}

	answer, err := svc.Ask(context.Background(), ix, "What is the meaning of life?")

	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, answer.Text)
	assert.Empty(t, answer.Contexts)
	assert.Equal(t, 0, answerer.answerCalls)
	assert.Equal(t, 0, answerer.generateCalls)
}

func TestAsk_NoProviderConfigured(t *testing.T) {
	svc := NewAskService(nil, nil, 3)
	ix := &fakeIndex{results: retrieved("Aries: good luck today")}

	_, err := svc.Ask(context.Background(), ix, "Will I have luck?")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := NewAskService(&fakeAnswerer{}, nil, 3)
	ix := &fakeIndex{results: retrieved("chunk")}

	_, err := svc.Ask(context.Background(), ix, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NilIndex(t *testing.T) {
	svc := NewAskService(&fakeAnswerer{}, nil, 3)

	_, err := svc.Ask(context.Background(), nil, "question")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrieve_RespectsTopK(t *testing.T) {
	svc := NewAskService(nil, nil, 2)
	ix := &fakeIndex{results: retrieved("a", "b", "c", "d")}

	results, err := svc.Retrieve(context.Background(), ix, "question")

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestCleanAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The stars align.", "The stars align."},
		{"leading echo", "Answer: The stars align.", "The stars align."},
		{"whitespace", "  \n Answer:  The stars align. \n", "The stars align."},
		{"echo mid-text untouched", "First. Answer: second.", "First. Answer: second."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanAnswer(tt.in))
		})
	}
}
