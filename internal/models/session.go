package models

import "time"

// SessionState tracks where a conversation sits in the collection cycle.
type SessionState string

const (
	StateCollecting         SessionState = "COLLECTING"
	StateReadyForPrediction SessionState = "READY_FOR_PREDICTION"
	StatePredicted          SessionState = "PREDICTED"
)

// Message is one role-tagged conversation turn.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session represents one active loan conversation. The profile holds only
// values that already passed validation; it is cleared after a successful
// prediction while the conversation history is retained.
type Session struct {
	ID           string                 `json:"id"`
	ProductID    string                 `json:"productId"`
	State        SessionState           `json:"state"`
	Conversation []Message              `json:"conversation"`
	Profile      map[string]interface{} `json:"profile"`
	// Applications counts the completed application cycles. A session can
	// run more than one; the active-sessions gauge is settled on the first.
	Applications int       `json:"applications"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewSession creates a fresh session in the collecting state.
func NewSession(id, productID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		ProductID:    productID,
		State:        StateCollecting,
		Conversation: []Message{},
		Profile:      map[string]interface{}{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddMessage appends a turn to the conversation history.
func (s *Session) AddMessage(role, content string) {
	s.Conversation = append(s.Conversation, Message{Role: role, Content: content})
	s.UpdatedAt = time.Now().UTC()
}

// ClearProfile atomically resets the collected fields for the next cycle.
// History stays intact.
func (s *Session) ClearProfile() {
	s.Profile = map[string]interface{}{}
	s.State = StateCollecting
	s.UpdatedAt = time.Now().UTC()
}

// LastAssistantMessage returns the most recent assistant turn, or empty.
func (s *Session) LastAssistantMessage() string {
	for i := len(s.Conversation) - 1; i >= 0; i-- {
		if s.Conversation[i].Role == "assistant" {
			return s.Conversation[i].Content
		}
	}
	return ""
}
