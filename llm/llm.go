package llm

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one item of a turn: either text, or inline media bytes with a
// declared MIME type. A part is media iff Data is non-nil.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func MediaPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

func (p Part) IsMedia() bool {
	return len(p.Data) > 0
}

// Turn is one message-equivalent unit of conversation, attributed to either
// the user side or the model side.
type Turn struct {
	Role  Role
	Parts []Part
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type Result struct {
	Text     string
	Usage    Usage
	Duration time.Duration
}

// Request carries the full prior history plus the parts of the new user turn.
// Providers replay History verbatim on every call; the system instruction is
// not part of History.
type Request struct {
	Model             string
	SystemInstruction string
	History           []Turn
	Parts             []Part
}

type Client interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// blockedMarker is the substring the backend embeds in call errors when the
// request was rejected by its safety filter. Matching stays this narrow on
// purpose; see IsBlocked.
const blockedMarker = "PROHIBITED_CONTENT"

// IsBlocked reports whether a Generate failure was a safety-policy rejection
// rather than an ordinary call failure.
func IsBlocked(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), blockedMarker)
}
