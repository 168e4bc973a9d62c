// Package session owns the live conversational context passed to the backend
// on every call.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/olcay-sar/discord-bot-gemini/llm"
)

// Session holds one ordered turn sequence and one backend handle. It is
// replaced wholesale on reset, never rebound in place. SendTurn serializes
// internally; callers additionally process whole turns one at a time so the
// alternating-role invariant cannot be interleaved.
type Session struct {
	mu          sync.Mutex
	client      llm.Client
	model       string
	instruction string
	history     []llm.Turn
}

func New(client llm.Client, model, instruction string, history []llm.Turn) *Session {
	return &Session{
		client:      client,
		model:       model,
		instruction: instruction,
		history:     append([]llm.Turn(nil), history...),
	}
}

// SendTurn appends a user turn built from parts, invokes the backend with the
// entire prior history, and appends the reply as a model turn. On failure the
// user turn stays appended and no model turn is added; callers must not
// persist after a failed call. The returned text has surrounding whitespace
// trimmed.
func (s *Session) SendTurn(ctx context.Context, parts []llm.Part) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := append([]llm.Turn(nil), s.history...)
	s.history = append(s.history, llm.Turn{Role: llm.RoleUser, Parts: parts})

	res, err := s.client.Generate(ctx, llm.Request{
		Model:             s.model,
		SystemInstruction: s.instruction,
		History:           prior,
		Parts:             parts,
	})
	if err != nil {
		return "", err
	}

	s.history = append(s.history, llm.Turn{
		Role:  llm.RoleModel,
		Parts: []llm.Part{llm.TextPart(res.Text)},
	})
	return strings.TrimSpace(res.Text), nil
}

// History returns a copy of the live turn sequence.
func (s *Session) History() []llm.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Turn(nil), s.history...)
}
