package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/ports/outbound"
)

func testPrompt() outbound.Prompt {
	return outbound.Prompt{
		Messages:    []outbound.ChatMessage{{Role: "user", Content: "hello"}},
		Temperature: 0.7,
		MaxTokens:   256,
	}
}

func completionBody(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("hi there")))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "gpt-4o-mini", zap.NewNop())
	text, err := client.Complete(context.Background(), testPrompt(), "secret-key")

	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Len(t, gotReq.Messages, 1)
}

func TestCompleteMapsStatusToKind(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusInternalServerError, KindTransient},
		{http.StatusBadGateway, KindTransient},
		{http.StatusBadRequest, KindUnknown},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", tt.status)
		}))

		client := NewClient(srv.URL, "gpt-4o-mini", zap.NewNop())
		_, err := client.Complete(context.Background(), testPrompt(), "key")
		srv.Close()

		require.Error(t, err, "status %d", tt.status)
		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, tt.kind, perr.Kind, "status %d", tt.status)
		assert.Equal(t, tt.status, perr.Status)
	}
}

func TestCompleteNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "gpt-4o-mini", zap.NewNop())
	_, err := client.Complete(context.Background(), testPrompt(), "key")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindTransient, perr.Kind)
	assert.True(t, perr.Retriable())
}

func TestCompleteTimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(srv.URL, "gpt-4o-mini", zap.NewNop())
	_, err := client.Complete(ctx, testPrompt(), "key")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindTransient, perr.Kind)
}

func TestCompleteCancellationIsNotRetriable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	client := NewClient(srv.URL, "gpt-4o-mini", zap.NewNop())
	_, err := client.Complete(ctx, testPrompt(), "key")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindUnknown, perr.Kind)
	assert.False(t, perr.Retriable())
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "gpt-4o-mini", zap.NewNop())
	_, err := client.Complete(context.Background(), testPrompt(), "key")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindUnknown, perr.Kind)
}
