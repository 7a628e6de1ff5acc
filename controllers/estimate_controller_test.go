package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caltrack/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	fn func(messages []services.Message) (string, error)
}

func (s *stubLLM) Complete(_ context.Context, messages []services.Message, _ float64) (string, error) {
	return s.fn(messages)
}

type stubDB struct {
	fn func(name string) (*services.FoodMatch, error)
}

func (s *stubDB) SearchFood(_ context.Context, name string) (*services.FoodMatch, error) {
	return s.fn(name)
}

func TestEstimateEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	llm := &stubLLM{fn: func(messages []services.Message) (string, error) {
		if strings.Contains(messages[0].Content, "Extract all the foods") {
			return `[{"food":"toast","quantity":"2 slices"}]`, nil
		}
		return "roughly 150 calories", nil
	}}
	db := &stubDB{fn: func(string) (*services.FoodMatch, error) { return nil, nil }}

	ec := NewEstimateController(services.NewEstimateService(llm, db), nil)
	r := gin.New()
	r.POST("/estimate", ec.Estimate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/estimate", strings.NewReader(`{"text":"I had two slices of toast"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"foods":[{"food":"toast","quantity":"2 slices","calories":150,"source":"openai"}]}`, w.Body.String())
}

func TestEstimateEndpointDegradesToEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	llm := &stubLLM{fn: func([]services.Message) (string, error) {
		return "no structured data here", nil
	}}
	db := &stubDB{fn: func(string) (*services.FoodMatch, error) { return nil, nil }}

	ec := NewEstimateController(services.NewEstimateService(llm, db), nil)
	r := gin.New()
	r.POST("/estimate", ec.Estimate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/estimate", strings.NewReader(`{"text":"gibberish"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// upstream nonsense still answers 200 with an empty list
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"foods":[]}`, w.Body.String())
}

func TestEstimatePhotoUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ec := NewEstimateController(services.NewEstimateService(
		&stubLLM{fn: func([]services.Message) (string, error) { return "[]", nil }},
		&stubDB{fn: func(string) (*services.FoodMatch, error) { return nil, nil }},
	), nil)
	r := gin.New()
	r.POST("/estimate/photo", ec.EstimateFromPhoto)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/estimate/photo", strings.NewReader(`{"image_base64":"data:image/jpeg;base64,xxxx"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
