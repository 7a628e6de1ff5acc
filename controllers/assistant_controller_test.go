package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"caltrack/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAssistantController() *AssistantController {
	return NewAssistantController(services.NewAssistantService(
		&stubLLM{fn: func([]services.Message) (string, error) { return "ok", nil }},
	))
}

func issueToken(t *testing.T, ac *AssistantController, userID uint) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws-token", func(c *gin.Context) {
		c.Set("userID", userID)
		ac.WSToken(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ws-token", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestWSTicketSingleUse(t *testing.T) {
	ac := newAssistantController()
	token := issueToken(t, ac, 7)

	userID, ok := ac.redeemTicket(token)
	require.True(t, ok)
	require.Equal(t, uint(7), userID)

	_, ok = ac.redeemTicket(token)
	require.False(t, ok)
}

func TestWSTicketExpiry(t *testing.T) {
	ac := newAssistantController()
	ac.tickets["stale"] = wsTicket{userID: 7, expires: time.Now().Add(-time.Second)}

	_, ok := ac.redeemTicket("stale")
	require.False(t, ok)
}

func TestWSTokenSweepsExpiredTickets(t *testing.T) {
	ac := newAssistantController()
	ac.tickets["stale"] = wsTicket{userID: 7, expires: time.Now().Add(-time.Minute)}

	token := issueToken(t, ac, 8)

	ac.mu.Lock()
	_, staleAlive := ac.tickets["stale"]
	_, freshAlive := ac.tickets[token]
	ac.mu.Unlock()

	require.False(t, staleAlive, "expired ticket must be swept on issue")
	require.True(t, freshAlive)
}
