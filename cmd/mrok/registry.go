package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/olcay-sar/discord-bot-gemini/internal/platform"
)

// GatewayFactory connects to the chat platform and returns the outbound
// gateway plus the inbound event source. The wire-level Discord connection is
// an external collaborator of this module; builds embed one by registering a
// factory before Execute.
type GatewayFactory func(ctx context.Context, botToken string, logger *slog.Logger) (platform.Gateway, platform.EventSource, error)

var (
	gatewayMu        sync.Mutex
	gatewayFactories = map[string]GatewayFactory{}
)

func RegisterGatewayFactory(name string, factory GatewayFactory) {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	gatewayFactories[strings.ToLower(strings.TrimSpace(name))] = factory
}

func gatewayFactoryByName(name string) (GatewayFactory, error) {
	gatewayMu.Lock()
	defer gatewayMu.Unlock()
	name = strings.ToLower(strings.TrimSpace(name))
	if len(gatewayFactories) == 0 {
		return nil, fmt.Errorf("no gateway implementation registered (link one via RegisterGatewayFactory)")
	}
	if name == "" && len(gatewayFactories) == 1 {
		for _, factory := range gatewayFactories {
			return factory, nil
		}
	}
	if factory, ok := gatewayFactories[name]; ok {
		return factory, nil
	}
	names := make([]string, 0, len(gatewayFactories))
	for n := range gatewayFactories {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown discord.gateway %q (registered: %s)", name, strings.Join(names, ", "))
}
