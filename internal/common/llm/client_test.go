package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	stderrors "hirelens/internal/common/errors"
	"hirelens/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 5*time.Second, logger.NewNoOpLogger())
	return srv, client
}

func TestInvokeJSON_Success(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := chatResponse{Message: chatMessage{
			Role:    "assistant",
			Content: `{"candidate_name": "Jane Doe", "email": "jane@example.com"}`,
		}}
		json.NewEncoder(w).Encode(resp)
	})

	result, err := client.InvokeJSON(context.Background(), "llama3", "extract", "cv text", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result["candidate_name"])
	assert.Equal(t, "jane@example.com", result["email"])
}

func TestInvokeJSON_StripsMarkdownFences(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse{Message: chatMessage{
			Content: "```json\n{\"match_score\": 75}\n```",
		}}
		json.NewEncoder(w).Encode(resp)
	})

	result, err := client.InvokeJSON(context.Background(), "llama3", "match", "combined", 0.5)
	require.NoError(t, err)
	assert.Equal(t, float64(75), result["match_score"])
}

func TestInvokeJSON_InvalidJSONIsParseError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse{Message: chatMessage{Content: "sorry, I cannot do that"}}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := client.InvokeJSON(context.Background(), "llama3", "extract", "cv", 0.3)
	require.Error(t, err)
	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeLLMParse, se.Code)
}

func TestInvokeJSON_UnreachableEndpointIsConnectionError(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.InvokeJSON(context.Background(), "llama3", "extract", "cv", 0.3)
	require.Error(t, err)
	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeLLMConnection, se.Code)
}

func TestInvokeJSON_ServerErrorIsConnectionError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := client.InvokeJSON(context.Background(), "llama3", "extract", "cv", 0.3)
	require.Error(t, err)
	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeLLMConnection, se.Code)
}

func TestParseJSONContent_EmptyResponse(t *testing.T) {
	_, err := ParseJSONContent("```json\n```")
	require.Error(t, err)
	se, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeLLMParse, se.Code)
}
