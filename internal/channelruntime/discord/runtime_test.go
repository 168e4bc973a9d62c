package discord

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olcay-sar/discord-bot-gemini/internal/dispatch"
	"github.com/olcay-sar/discord-bot-gemini/internal/platform"
	"github.com/olcay-sar/discord-bot-gemini/internal/transcript"
	"github.com/olcay-sar/discord-bot-gemini/llm"
)

type fakeClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeClient) Generate(context.Context, llm.Request) (llm.Result, error) {
	f.calls++
	if f.err != nil {
		return llm.Result{}, f.err
	}
	return llm.Result{Text: f.reply}, nil
}

type fakeGateway struct {
	groups      []platform.Group
	users       map[int64]platform.User
	directErr   error
	channelMsgs []string
	directMsgs  []string
	directTo    []platform.User
}

func (g *fakeGateway) SendChannel(_ context.Context, _ int64, text string) error {
	g.channelMsgs = append(g.channelMsgs, text)
	return nil
}

func (g *fakeGateway) SendDirect(_ context.Context, user platform.User, text string) error {
	if g.directErr != nil {
		return g.directErr
	}
	g.directTo = append(g.directTo, user)
	g.directMsgs = append(g.directMsgs, text)
	return nil
}

func (g *fakeGateway) FetchUser(_ context.Context, id int64) (platform.User, bool, error) {
	user, ok := g.users[id]
	return user, ok, nil
}

func (g *fakeGateway) Groups(context.Context) ([]platform.Group, error) {
	return g.groups, nil
}

type fakeSource struct{ ch chan platform.InboundEvent }

func (s *fakeSource) Events() <-chan platform.InboundEvent { return s.ch }

func newTestRuntime(t *testing.T, client llm.Client, gw *fakeGateway) *Runtime {
	t.Helper()
	store := transcript.New(filepath.Join(t.TempDir(), "chat_history.json"))
	r, err := New(Config{
		Gateway: gw,
		Source:  &fakeSource{ch: make(chan platform.InboundEvent)},
		Client:  client,
		Model:   "gemini-2.5-flash",
		Store:   store,
		Options: RunOptions{MaxMessageLength: 2000},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func event(text string) platform.InboundEvent {
	return platform.InboundEvent{
		ChannelID: 100,
		Author:    platform.User{ID: 1, Username: "nevares", DisplayName: "Nevares"},
		Text:      text,
	}
}

func TestTextReplyPassesThrough(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRuntime(t, &fakeClient{reply: "Hello there!"}, gw)

	r.handleEvent(context.Background(), event("hi"))

	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != "Hello there!" {
		t.Fatalf("expected verbatim reply, got %v", gw.channelMsgs)
	}
	if len(r.session.History()) != 2 {
		t.Errorf("expected one exchanged turn pair, got %d turns", len(r.session.History()))
	}
	if recs := r.store.Load(); len(recs) != 2 {
		t.Errorf("expected transcript persisted after exchange, got %d records", len(recs))
	}
}

func TestEmptyReplyEmitsNoResponseNotice(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRuntime(t, &fakeClient{reply: "   \n"}, gw)

	r.handleEvent(context.Background(), event("hi"))

	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != noResponseNotice {
		t.Fatalf("expected no-response notice, got %v", gw.channelMsgs)
	}
}

func TestActionReplySuppressesRawReply(t *testing.T) {
	reply := "```json\n{\"action\":\"dm\",\"target_user\":\"bob\",\"message\":\"hi bob\"}\n```"
	gw := &fakeGateway{groups: []platform.Group{
		{ID: 1, Members: []platform.User{{ID: 2, Username: "bob", DisplayName: "Bob"}}},
	}}
	r := newTestRuntime(t, &fakeClient{reply: reply}, gw)

	r.handleEvent(context.Background(), event("dm bob saying hi"))

	if len(gw.directMsgs) != 1 || gw.directMsgs[0] != "hi bob" {
		t.Fatalf("expected one DM delivery, got %v", gw.directMsgs)
	}
	if len(gw.channelMsgs) != 1 {
		t.Fatalf("expected exactly one outbound channel message, got %v", gw.channelMsgs)
	}
	if gw.channelMsgs[0] != dispatch.DeliveredOutcome("Bob") {
		t.Errorf("expected delivered outcome, got %q", gw.channelMsgs[0])
	}
	if strings.Contains(gw.channelMsgs[0], "```") {
		t.Error("raw action block leaked to the channel")
	}
}

func TestActionUnresolvableTargetStillEmits(t *testing.T) {
	reply := "```json\n{\"action\":\"dm\",\"target_user\":\"ghost\",\"message\":\"boo\"}\n```"
	gw := &fakeGateway{}
	r := newTestRuntime(t, &fakeClient{reply: reply}, gw)

	r.handleEvent(context.Background(), event("dm ghost"))

	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != dispatch.TargetNotFoundOutcome("ghost") {
		t.Fatalf("expected target-not-found outcome, got %v", gw.channelMsgs)
	}
	if recs := r.store.Load(); len(recs) != 2 {
		t.Errorf("transcript must persist even when the action fails, got %d records", len(recs))
	}
}

func TestActionForbiddenDelivery(t *testing.T) {
	reply := "```json\n{\"action\":\"dm\",\"target_user\":\"bob\",\"message\":\"hi\"}\n```"
	gw := &fakeGateway{
		groups:    []platform.Group{{ID: 1, Members: []platform.User{{ID: 2, Username: "bob"}}}},
		directErr: platform.ErrForbidden,
	}
	r := newTestRuntime(t, &fakeClient{reply: reply}, gw)

	r.handleEvent(context.Background(), event("dm bob"))

	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != dispatch.ForbiddenOutcome("bob") {
		t.Fatalf("expected forbidden outcome, got %v", gw.channelMsgs)
	}
}

func TestMentionBeatsIdentifier(t *testing.T) {
	reply := "```json\n{\"action\":\"dm\",\"target_user\":\"someoneelse\",\"message\":\"hi\"}\n```"
	gw := &fakeGateway{}
	r := newTestRuntime(t, &fakeClient{reply: reply}, gw)

	ev := event("dm him")
	ev.Mentions = []platform.User{{ID: 9, Username: "carol", DisplayName: "Carol"}}
	r.handleEvent(context.Background(), ev)

	if len(gw.directTo) != 1 || gw.directTo[0].ID != 9 {
		t.Fatalf("expected mention to receive the DM, got %v", gw.directTo)
	}
}

func TestBackendErrorSkipsPersistence(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRuntime(t, &fakeClient{err: errors.New("rpc failure")}, gw)

	r.handleEvent(context.Background(), event("hi"))

	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != backendErrNotice {
		t.Fatalf("expected generic backend notice, got %v", gw.channelMsgs)
	}
	if recs := r.store.Load(); len(recs) != 0 {
		t.Errorf("transcript must not be written after a failed exchange, got %d records", len(recs))
	}
}

func TestBackendSafetyRejectionNotice(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestRuntime(t, &fakeClient{err: errors.New("block_reason: PROHIBITED_CONTENT")}, gw)

	r.handleEvent(context.Background(), event("something awful"))

	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != blockedNotice {
		t.Fatalf("expected safety notice, got %v", gw.channelMsgs)
	}
}

func TestLongMessageTruncation(t *testing.T) {
	gw := &fakeGateway{}
	client := &fakeClient{reply: "ok"}
	r := newTestRuntime(t, client, gw)
	r.opts.MaxMessageLength = 2000

	long := event(strings.Repeat("a", 2500))
	r.handleEvent(context.Background(), long)

	if len(gw.channelMsgs) != 2 {
		t.Fatalf("expected truncation notice plus reply, got %v", gw.channelMsgs)
	}
	want := truncationNotice(len("Nevares: ")+2500, 2000)
	if gw.channelMsgs[0] != want {
		t.Errorf("truncation notice = %q, want %q", gw.channelMsgs[0], want)
	}
	if client.calls != 1 {
		t.Errorf("truncation must not abort the turn, backend calls = %d", client.calls)
	}
}

func TestUnreadableImageAttachmentContinuesTurn(t *testing.T) {
	gw := &fakeGateway{}
	client := &fakeClient{reply: "ok"}
	r := newTestRuntime(t, client, gw)

	ev := event("look")
	ev.Attachments = []platform.Attachment{
		{
			Filename:    "broken.png",
			ContentType: "image/png",
			Read:        func(context.Context) ([]byte, error) { return nil, errors.New("410 gone") },
		},
		{
			Filename:    "notes.txt",
			ContentType: "text/plain",
			Read: func(context.Context) ([]byte, error) {
				t.Error("non-image attachment must be ignored")
				return nil, nil
			},
		},
	}
	r.handleEvent(context.Background(), ev)

	if len(gw.channelMsgs) != 2 {
		t.Fatalf("expected attachment notice plus reply, got %v", gw.channelMsgs)
	}
	if gw.channelMsgs[0] != attachmentNotice("broken.png") {
		t.Errorf("unexpected attachment notice: %q", gw.channelMsgs[0])
	}
	if client.calls != 1 {
		t.Errorf("attachment failure must not abort the turn, backend calls = %d", client.calls)
	}
}

func TestResetBypassesBackend(t *testing.T) {
	gw := &fakeGateway{}
	client := &fakeClient{reply: "should not be called"}
	r := newTestRuntime(t, client, gw)

	r.handleEvent(context.Background(), event("hello"))
	gw.channelMsgs = nil

	r.handleEvent(context.Background(), event("  !ReSeT  "))

	if client.calls != 1 {
		t.Errorf("reset must not call the backend, calls = %d", client.calls)
	}
	if len(gw.channelMsgs) != 1 || gw.channelMsgs[0] != resetConfirmation {
		t.Fatalf("expected reset confirmation, got %v", gw.channelMsgs)
	}
	if len(r.session.History()) != 0 {
		t.Errorf("expected empty history after reset, got %d turns", len(r.session.History()))
	}
	if recs := r.store.Load(); len(recs) != 0 {
		t.Errorf("expected cleared transcript after reset, got %d records", len(recs))
	}
}

func TestRunProcessesEventsInOrder(t *testing.T) {
	gw := &fakeGateway{}
	client := &fakeClient{reply: "ack"}
	store := transcript.New(filepath.Join(t.TempDir(), "chat_history.json"))
	source := &fakeSource{ch: make(chan platform.InboundEvent, 2)}
	r, err := New(Config{
		Gateway: gw,
		Source:  source,
		Client:  client,
		Model:   "m",
		Store:   store,
	})
	if err != nil {
		t.Fatal(err)
	}

	source.ch <- event("one")
	source.ch <- event("two")
	close(source.ch)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if client.calls != 2 {
		t.Errorf("expected both events exchanged, calls = %d", client.calls)
	}
	if len(r.session.History()) != 4 {
		t.Errorf("expected 4 turns after two exchanges, got %d", len(r.session.History()))
	}
}
