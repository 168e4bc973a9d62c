// Package discord drives one inbound message through the full pipeline:
// compose multimodal parts, exchange with the backend, classify the reply,
// and emit exactly one outbound message for the turn.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/olcay-sar/discord-bot-gemini/internal/channelruntime/worker"
	"github.com/olcay-sar/discord-bot-gemini/internal/dispatch"
	"github.com/olcay-sar/discord-bot-gemini/internal/platform"
	"github.com/olcay-sar/discord-bot-gemini/internal/session"
	"github.com/olcay-sar/discord-bot-gemini/internal/transcript"
	"github.com/olcay-sar/discord-bot-gemini/llm"
)

type Config struct {
	Gateway platform.Gateway
	Source  platform.EventSource
	Client  llm.Client
	Model   string
	Store   *transcript.Store
	Logger  *slog.Logger
	Options RunOptions
}

// Runtime owns the live session. Events are processed strictly one at a time
// (single worker goroutine), so no two turns can interleave their history
// appends; reset swaps in a fresh session value.
type Runtime struct {
	gateway     platform.Gateway
	source      platform.EventSource
	client      llm.Client
	model       string
	instruction string
	store       *transcript.Store
	logger      *slog.Logger
	opts        RunOptions

	session  *session.Session
	resolver *dispatch.Resolver
	executor *dispatch.Executor
}

func New(cfg Config) (*Runtime, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("event source is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("transcript store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := normalizeRunOptions(cfg.Options)
	instruction := session.Instruction(opts.AuthorityUser)

	history := transcript.ToTurns(cfg.Store.Load())
	r := &Runtime{
		gateway:     cfg.Gateway,
		source:      cfg.Source,
		client:      cfg.Client,
		model:       cfg.Model,
		instruction: instruction,
		store:       cfg.Store,
		logger:      logger,
		opts:        opts,
		session:     session.New(cfg.Client, cfg.Model, instruction, history),
		resolver:    dispatch.NewResolver(cfg.Gateway),
		executor:    dispatch.NewExecutor(cfg.Gateway, logger),
	}
	logger.Info("runtime_ready", "restored_turns", len(history), "transcript", cfg.Store.Path())
	return r, nil
}

// Run consumes inbound events until the context ends or the source closes.
func (r *Runtime) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	jobs := make(chan platform.InboundEvent, r.opts.MaxQueue)
	done := worker.Start(worker.StartOptions[platform.InboundEvent]{
		Ctx:    ctx,
		Jobs:   jobs,
		Handle: r.handleEvent,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-r.source.Events():
			if !ok {
				close(jobs)
				<-done
				return nil
			}
			if err := worker.Enqueue(ctx, ctx, jobs, event); err != nil {
				return err
			}
		}
	}
}

func (r *Runtime) handleEvent(ctx context.Context, event platform.InboundEvent) {
	log := r.logger.With("event_id", uuid.NewString(), "author", event.Author.Name())

	if strings.EqualFold(strings.TrimSpace(event.Text), resetToken) {
		r.reset(ctx, event, log)
		return
	}

	parts := r.composeParts(ctx, event, log)

	reply, err := r.session.SendTurn(ctx, parts)
	if err != nil {
		log.Error("backend_error", "error", err.Error())
		if llm.IsBlocked(err) {
			r.send(ctx, event, blockedNotice, log)
			return
		}
		r.send(ctx, event, backendErrNotice, log)
		return
	}

	// Persist right after the successful exchange, before classification;
	// a later action failure must not lose the turn.
	if err := r.store.Save(transcript.FromTurns(r.session.History())); err != nil {
		log.Error("transcript_save_error", "error", err.Error())
	}

	if inst, ok := dispatch.Classify(reply); ok {
		recipient, found := r.resolver.Resolve(ctx, inst.TargetUser, event.Mentions, event.Group, r.groups(ctx, log))
		outcome := r.executor.Execute(ctx, recipient, found, inst)
		r.send(ctx, event, outcome, log)
		log.Info("turn_completed", "path", "action", "target", inst.TargetUser, "resolved", found)
		return
	}

	if reply == "" {
		r.send(ctx, event, noResponseNotice, log)
	} else {
		r.send(ctx, event, reply, log)
	}
	log.Info("turn_completed", "path", "text")
}

// composeParts builds the model turn: display-name-prefixed text, truncated
// to the configured maximum, plus any readable image attachments.
func (r *Runtime) composeParts(ctx context.Context, event platform.InboundEvent, log *slog.Logger) []llm.Part {
	formatted := fmt.Sprintf("%s: %s", event.Author.Name(), event.Text)
	if runes := []rune(formatted); len(runes) > r.opts.MaxMessageLength {
		r.send(ctx, event, truncationNotice(len(runes), r.opts.MaxMessageLength), log)
		formatted = string(runes[:r.opts.MaxMessageLength])
	}
	parts := []llm.Part{llm.TextPart(formatted)}

	for _, att := range event.Attachments {
		if !att.IsImage() || att.Read == nil {
			continue
		}
		data, err := att.Read(ctx)
		if err != nil {
			log.Warn("attachment_read_error", "filename", att.Filename, "error", err.Error())
			r.send(ctx, event, attachmentNotice(att.Filename), log)
			continue
		}
		parts = append(parts, llm.MediaPart(att.ContentType, data))
	}
	return parts
}

// reset discards the session and the persisted transcript without touching
// the backend. Idempotent.
func (r *Runtime) reset(ctx context.Context, event platform.InboundEvent, log *slog.Logger) {
	r.session = session.New(r.client, r.model, r.instruction, nil)
	if err := r.store.Clear(); err != nil {
		log.Error("transcript_clear_error", "error", err.Error())
	}
	r.send(ctx, event, resetConfirmation, log)
	log.Info("conversation_reset")
}

func (r *Runtime) groups(ctx context.Context, log *slog.Logger) []platform.Group {
	groups, err := r.gateway.Groups(ctx)
	if err != nil {
		log.Warn("groups_list_error", "error", err.Error())
		return nil
	}
	return groups
}

func (r *Runtime) send(ctx context.Context, event platform.InboundEvent, text string, log *slog.Logger) {
	if err := r.gateway.SendChannel(ctx, event.ChannelID, text); err != nil {
		log.Error("channel_send_error", "channel_id", event.ChannelID, "error", err.Error())
	}
}
