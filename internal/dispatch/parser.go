// Package dispatch turns a backend reply into a side effect: classification
// of the reply shape, resolution of the requested recipient, and the single
// delivery attempt.
package dispatch

import (
	"encoding/json"
	"strings"
)

const ActionDM = "dm"

// Instruction is the one supported structured action.
type Instruction struct {
	Action     string `json:"action"`
	TargetUser string `json:"target_user"`
	Message    string `json:"message"`
}

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// Classify reports whether reply is a structured action. The reply qualifies
// only when the fenced json block is the entire reply; anything else —
// including malformed JSON inside a fence and well-formed JSON of a different
// shape — is free text. Deliberately stricter than a "contains JSON anywhere"
// scan: ambiguous input defaults to conversation.
func Classify(reply string) (Instruction, bool) {
	if !strings.HasPrefix(reply, fenceOpen) || !strings.HasSuffix(reply, fenceClose) {
		return Instruction{}, false
	}
	if len(reply) < len(fenceOpen)+len(fenceClose) {
		return Instruction{}, false
	}
	body := strings.TrimSpace(reply[len(fenceOpen) : len(reply)-len(fenceClose)])

	var raw struct {
		Action     *string `json:"action"`
		TargetUser *string `json:"target_user"`
		Message    *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return Instruction{}, false
	}
	if raw.Action == nil || *raw.Action != ActionDM || raw.TargetUser == nil || raw.Message == nil {
		return Instruction{}, false
	}
	return Instruction{
		Action:     *raw.Action,
		TargetUser: *raw.TargetUser,
		Message:    *raw.Message,
	}, true
}
