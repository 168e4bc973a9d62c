// Package platform defines the chat-platform collaborator surface. The wire
// connection itself (Discord gateway, auth, rate limits) lives outside this
// repository; the runtime only consumes decoded inbound events and issues the
// few outbound operations below.
package platform

import (
	"context"
	"errors"
	"strings"
)

// ErrForbidden marks a direct-message delivery the platform refused for
// permission reasons (recipient has DMs disabled or blocked the bot).
var ErrForbidden = errors.New("platform: direct message forbidden")

// User is an addressable identity capable of receiving a private message.
type User struct {
	ID          int64
	Username    string
	DisplayName string
}

// Name returns the display name, falling back to the username.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Group is a named scope of members searched during identifier resolution.
type Group struct {
	ID      int64
	Name    string
	Members []User
}

type Attachment struct {
	Filename    string
	ContentType string
	// Read fetches the attachment bytes. Called at most once per event.
	Read func(ctx context.Context) ([]byte, error)
}

func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

// InboundEvent is one message received from the chat platform.
type InboundEvent struct {
	ChannelID   int64
	Author      User
	Text        string
	Attachments []Attachment
	// Mentions holds users already resolved by the platform from mention
	// markup in Text, in order of appearance.
	Mentions []User
	// Group is the enclosing group of the originating channel, nil for
	// direct channels.
	Group *Group
}

// Gateway is the outbound half of the platform connection.
type Gateway interface {
	// SendChannel posts text to the given channel.
	SendChannel(ctx context.Context, channelID int64, text string) error
	// SendDirect delivers a private message. Permission denials are
	// reported as ErrForbidden.
	SendDirect(ctx context.Context, user User, text string) error
	// FetchUser looks up a user by numeric id. Not-found is (User{},
	// false, nil); transient failures return an error.
	FetchUser(ctx context.Context, id int64) (User, bool, error)
	// Groups lists every group the bot participates in, members included,
	// in the platform's listing order.
	Groups(ctx context.Context) ([]Group, error)
}

// EventSource is the inbound half. Implementations must not deliver events
// authored by the bot itself.
type EventSource interface {
	Events() <-chan InboundEvent
}
