package controllers

import (
	"net/http"
	"sync"
	"time"

	"caltrack/services"
	"caltrack/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type AssistantController struct {
	assistant *services.AssistantService

	mu      sync.Mutex
	tickets map[string]wsTicket
}

type wsTicket struct {
	userID  uint
	expires time.Time
}

func NewAssistantController(assistant *services.AssistantService) *AssistantController {
	return &AssistantController{
		assistant: assistant,
		tickets:   make(map[string]wsTicket),
	}
}

type assistantInput struct {
	Text string `json:"text" binding:"required"`
}

type assistantReply struct {
	Reply string                   `json:"reply"`
	Foods []services.AssistantFood `json:"foods"`
}

// Message advances the user's estimation conversation by one turn.
func (a *AssistantController) Message(c *gin.Context) {
	var input assistantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, foods := a.assistant.Advance(c.Request.Context(), c.GetUint("userID"), input.Text)
	if foods == nil {
		foods = []services.AssistantFood{}
	}
	c.JSON(http.StatusOK, assistantReply{Reply: reply, Foods: foods})
}

func (a *AssistantController) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"turns": a.assistant.Transcript(c.GetUint("userID"))})
}

// WSToken hands out a short-lived single-use ticket so the websocket upgrade
// can authenticate without an Authorization header.
func (a *AssistantController) WSToken(c *gin.Context) {
	token := utils.GenerateRandomToken(32)
	now := time.Now()

	a.mu.Lock()
	// sweep abandoned tickets so they don't pile up for the process lifetime
	for tok, t := range a.tickets {
		if now.After(t.expires) {
			delete(a.tickets, tok)
		}
	}
	a.tickets[token] = wsTicket{
		userID:  c.GetUint("userID"),
		expires: now.Add(time.Minute),
	}
	a.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (a *AssistantController) redeemTicket(token string) (uint, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.tickets[token]
	if !ok {
		return 0, false
	}
	delete(a.tickets, token)
	if time.Now().After(t.expires) {
		return 0, false
	}
	return t.userID, true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS runs the assistant conversation over a websocket: each text frame
// from the client is one user turn, each server frame is the JSON reply.
func (a *AssistantController) HandleWS(c *gin.Context) {
	userID, ok := a.redeemTicket(c.Param("token"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply, foods := a.assistant.Advance(c.Request.Context(), userID, string(data))
		if foods == nil {
			foods = []services.AssistantFood{}
		}
		if err := conn.WriteJSON(assistantReply{Reply: reply, Foods: foods}); err != nil {
			return
		}
	}
}
