package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/olcay-sar/discord-bot-gemini/internal/platform"
)

// Executor performs the resolved side effect. Exactly one delivery attempt is
// made; every failure category maps to one outcome string.
type Executor struct {
	gateway platform.Gateway
	logger  *slog.Logger
}

func NewExecutor(gateway platform.Gateway, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{gateway: gateway, logger: logger}
}

func (e *Executor) Execute(ctx context.Context, recipient platform.User, found bool, inst Instruction) string {
	if !found {
		return TargetNotFoundOutcome(inst.TargetUser)
	}

	err := e.gateway.SendDirect(ctx, recipient, inst.Message)
	switch {
	case err == nil:
		e.logger.Info("dm_sent", "recipient", recipient.Name(), "recipient_id", recipient.ID)
		return DeliveredOutcome(recipient.Name())
	case errors.Is(err, platform.ErrForbidden):
		e.logger.Warn("dm_forbidden", "recipient", recipient.Name(), "recipient_id", recipient.ID)
		return ForbiddenOutcome(recipient.Name())
	default:
		e.logger.Error("dm_error", "recipient", recipient.Name(), "recipient_id", recipient.ID, "error", err.Error())
		return DeliveryErrorOutcome(err)
	}
}
