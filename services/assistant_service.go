package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"caltrack/utils"
)

// AssistantFood is one structured record parsed out of the assistant's reply.
// Calories is already normalized to a single scalar (ranges collapse to their
// midpoint, junk degrades to 0).
type AssistantFood struct {
	Food     string  `json:"food"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
}

const assistantSystemPrompt = `You are a calorie tracking assistant. The user will tell you what they ate and you help them work out the calories.

Whenever the user mentions food or drink, include in your reply a JSON array of objects, one per item, with the fields "food", "quantity" and "calories". Each "calories" value must be a single number — never a range and never text. Include zero-calorie items such as water or black coffee if the user mentions them. You may surround the array with a short conversational answer.`

const assistantApology = "Sorry, I had trouble working that out. Could you tell me again what you ate?"

// chatSession holds one user's transcript. The mutex serializes appends so
// concurrent requests from the same session cannot interleave turns.
type chatSession struct {
	mu    sync.Mutex
	turns []Message
}

// AssistantService keeps one conversational estimation session per user.
// Sessions are created lazily on first use and cleared on logout.
type AssistantService struct {
	llm ChatCompleter

	mu       sync.RWMutex
	sessions map[uint]*chatSession
}

// maxSessionTurns caps the transcript at the system turn plus twenty
// user/assistant exchanges. The oldest exchanges are dropped pairwise once
// the cap is hit; the system turn is always kept first.
const maxSessionTurns = 41

func NewAssistantService(llm ChatCompleter) *AssistantService {
	return &AssistantService{
		llm:      llm,
		sessions: make(map[uint]*chatSession),
	}
}

func (s *AssistantService) session(userID uint) *chatSession {
	s.mu.RLock()
	sess := s.sessions[userID]
	s.mu.RUnlock()
	if sess != nil {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess = s.sessions[userID]; sess == nil {
		sess = &chatSession{}
		s.sessions[userID] = sess
	}
	return sess
}

// Advance appends userText to the user's transcript, sends the whole
// transcript to the model, records the reply and parses any embedded food
// array out of it. External failures never propagate: the session stays
// usable and the caller gets a fixed fallback reply with no foods.
func (s *AssistantService) Advance(ctx context.Context, userID uint, userText string) (string, []AssistantFood) {
	if strings.TrimSpace(userText) == "" {
		return "", nil
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.turns) == 0 {
		sess.turns = append(sess.turns, Message{Role: RoleSystem, Content: assistantSystemPrompt})
	}
	sess.turns = append(sess.turns, Message{Role: RoleUser, Content: userText})

	reply, err := s.llm.Complete(ctx, sess.turns, 0)
	if err != nil {
		utils.Log.Warnw("assistant completion failed", "userID", userID, "error", err)
		sess.turns = append(sess.turns, Message{Role: RoleAssistant, Content: assistantApology})
		sess.trim()
		return assistantApology, []AssistantFood{}
	}

	foods, parseErr := parseAssistantFoods(reply)
	if parseErr != nil {
		// malformed embedded array: store the apology instead of the raw reply
		utils.Log.Warnw("assistant reply array unparseable", "userID", userID, "error", parseErr)
		sess.turns = append(sess.turns, Message{Role: RoleAssistant, Content: assistantApology})
		sess.trim()
		return assistantApology, []AssistantFood{}
	}

	sess.turns = append(sess.turns, Message{Role: RoleAssistant, Content: reply})
	sess.trim()
	return reply, foods
}

// trim enforces maxSessionTurns, dropping the oldest non-system turns in
// pairs so user/assistant alternation survives. Caller holds sess.mu.
func (s *chatSession) trim() {
	if len(s.turns) <= maxSessionTurns {
		return
	}
	overflow := len(s.turns) - maxSessionTurns
	if overflow%2 != 0 {
		overflow++
	}
	kept := make([]Message, 0, len(s.turns)-overflow)
	kept = append(kept, s.turns[0])
	kept = append(kept, s.turns[1+overflow:]...)
	s.turns = kept
}

// Transcript returns a copy of the user's transcript, empty if the session
// has not been started.
func (s *AssistantService) Transcript(userID uint) []Message {
	s.mu.RLock()
	sess := s.sessions[userID]
	s.mu.RUnlock()
	if sess == nil {
		return []Message{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Message, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Reset drops the user's session entirely; the next Advance starts fresh.
// Called on logout.
func (s *AssistantService) Reset(userID uint) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// parseAssistantFoods pulls the first JSON array of objects embedded anywhere
// in the reply and parses it strictly. A reply with no such array is fine
// (small talk) and yields nil foods with no error; an array that will not
// parse is an error so the caller can fall back.
func parseAssistantFoods(reply string) ([]AssistantFood, error) {
	block, ok := firstObjectArray(reply)
	if !ok {
		return nil, nil
	}

	var raw []struct {
		Food     string `json:"food"`
		Quantity string `json:"quantity"`
		Calories any    `json:"calories"`
	}
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, err
	}

	foods := make([]AssistantFood, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Food) == "" {
			continue
		}
		foods = append(foods, AssistantFood{
			Food:     r.Food,
			Quantity: r.Quantity,
			Calories: utils.NormalizeCalories(r.Calories),
		})
	}
	return foods, nil
}

// firstObjectArray scans for the first balanced [...] block that contains
// object literals, tolerating prose around it. The scan is string-aware so
// brackets inside JSON strings do not confuse it.
func firstObjectArray(text string) (string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '[' {
			continue
		}

		depth := 0
		inString := false
		escaped := false
		hasObject := false
		for i := start; i < len(text); i++ {
			ch := text[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case ch == '\\':
					escaped = true
				case ch == '"':
					inString = false
				}
				continue
			}
			switch ch {
			case '"':
				inString = true
			case '{':
				hasObject = true
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					if hasObject {
						return text[start : i+1], true
					}
					// empty or scalar array: keep scanning after it
					start = i
					i = len(text)
				}
			}
		}
		if depth != 0 {
			// unbalanced from this opener onward; no later opener can close
			return "", false
		}
	}
	return "", false
}
