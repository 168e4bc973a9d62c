package discord

import "fmt"

// Fixed user-facing notices emitted by the runtime outside the action path.
const (
	resetToken        = "!reset"
	resetConfirmation = "Conversation history has been reset."
	noResponseNotice  = "Gemini did not provide a response."
	backendErrNotice  = "Sorry, I encountered an error while trying to get a response from Gemini."
	blockedNotice     = "I'm sorry, but I cannot respond to that message. It may contain content that violates my safety guidelines."
)

func truncationNotice(originalLen, maxLen int) string {
	return fmt.Sprintf("Your message was too long (%d chars). Truncating to %d chars for Gemini.", originalLen, maxLen)
}

func attachmentNotice(filename string) string {
	return fmt.Sprintf("Could not read or process attachment: %s", filename)
}
