package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func TestAnswer_ChatEndpoint(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "The stars favour you."},
			Done:    true,
		})
	}))
	defer srv.Close()

	svc := NewAnswerService(Config{BaseURL: srv.URL, Model: "llama3.2"})
	answer, err := svc.Answer(context.Background(), "Will I have luck?", []string{"Aries: good luck today"})

	require.NoError(t, err)
	assert.Equal(t, "The stars favour you.", answer)
	assert.Equal(t, "llama3.2", gotReq.Model)
	require.Len(t, gotReq.Messages, 3)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Aries: good luck today")
	assert.Equal(t, "Will I have luck?", gotReq.Messages[2].Content)
}

func TestAnswer_NoChatEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewAnswerService(Config{BaseURL: srv.URL})
	_, err := svc.Answer(context.Background(), "Will I have luck?", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAnswerUnsupported)
}

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{Response: "Answer: fortune smiles", Done: true})
	}))
	defer srv.Close()

	svc := NewAnswerService(Config{BaseURL: srv.URL})
	out, err := svc.Generate(context.Background(), "Context:\n...\n\nQuestion: luck?\n\nAnswer:")

	require.NoError(t, err)
	assert.Equal(t, "Answer: fortune smiles", out)
	assert.False(t, gotReq.Stream)
}

func TestAnswer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewAnswerService(Config{BaseURL: srv.URL})
	_, err := svc.Answer(context.Background(), "question", nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAnswerUnsupported)
	assert.Contains(t, err.Error(), "status 500")
}

func TestAnswer_RateLimitedSetsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewAnswerService(Config{BaseURL: srv.URL})
	_, err := svc.Answer(context.Background(), "question", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.False(t, svc.limiter.Allow())
}

func TestGenerate_RateLimitedSetsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewAnswerService(Config{BaseURL: srv.URL})
	_, err := svc.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.False(t, svc.limiter.Allow())
}
