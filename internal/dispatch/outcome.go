package dispatch

import "fmt"

// The closed set of user-facing outcome strings produced by the action path.

func TargetNotFoundOutcome(identifier string) string {
	return fmt.Sprintf("Gemini requested to DM user `%s`, but I could not find them. Please ensure the username is exact or use a mention.", identifier)
}

func DeliveredOutcome(recipientName string) string {
	return fmt.Sprintf("Direct message sent to %s.", recipientName)
}

func ForbiddenOutcome(recipientName string) string {
	return fmt.Sprintf("Could not send DM to %s. They might have DMs disabled or blocked the bot.", recipientName)
}

func DeliveryErrorOutcome(err error) string {
	return fmt.Sprintf("An error occurred while sending DM: %v", err)
}
