package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompleteSendsMessagesAndTemperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Equal(t, 0.0, req.Temperature)
		require.Len(t, req.Messages, 2)
		require.Equal(t, RoleSystem, req.Messages[0].Role)

		w.Write([]byte(`{"choices":[{"message":{"content":"hello there"}}]}`))
	}))
	defer srv.Close()

	svc := &OpenAIService{
		client:  srv.Client(),
		apiKey:  "test-key",
		model:   "test-model",
		baseURL: srv.URL,
	}

	reply, err := svc.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}, 0)
	require.NoError(t, err)
	require.Equal(t, "hello there", reply)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
	}{
		{name: "non-200", status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc := &OpenAIService{client: srv.Client(), apiKey: "k", model: "m", baseURL: srv.URL}
			_, err := svc.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, 0)
			require.Error(t, err)
		})
	}
}
