package dispatch

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/olcay-sar/discord-bot-gemini/internal/platform"
)

var mentionMarkupRe = regexp.MustCompile(`^<@!?(\d+)>$`)

// Resolver maps a human-supplied identifier to a concrete recipient. Its
// contract is total: it always returns, never fails — any lookup error counts
// as not found.
type Resolver struct {
	gateway platform.Gateway
}

func NewResolver(gateway platform.Gateway) *Resolver {
	return &Resolver{gateway: gateway}
}

// Resolve searches progressively wider scopes, first match wins:
// explicit mentions, then the local group, then every group, then a direct
// id lookup for mention markup or purely numeric identifiers. Handle and
// display-name comparison is case-insensitive exact. Members are scanned in
// ascending user-id order so duplicate display names resolve
// deterministically.
func (r *Resolver) Resolve(ctx context.Context, identifier string, mentions []platform.User, local *platform.Group, all []platform.Group) (platform.User, bool) {
	if len(mentions) > 0 {
		return mentions[0], true
	}

	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle != "" {
		if local != nil {
			if user, ok := matchMember(*local, needle); ok {
				return user, true
			}
		}
		for _, group := range all {
			if user, ok := matchMember(group, needle); ok {
				return user, true
			}
		}
	}

	if id, ok := parseUserID(identifier); ok && r.gateway != nil {
		user, found, err := r.gateway.FetchUser(ctx, id)
		if err == nil && found {
			return user, true
		}
	}
	return platform.User{}, false
}

func matchMember(group platform.Group, needle string) (platform.User, bool) {
	members := append([]platform.User(nil), group.Members...)
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	for _, m := range members {
		if strings.ToLower(m.Username) == needle {
			return m, true
		}
		if m.DisplayName != "" && strings.ToLower(m.DisplayName) == needle {
			return m, true
		}
	}
	return platform.User{}, false
}

func parseUserID(identifier string) (int64, bool) {
	s := strings.TrimSpace(identifier)
	if m := mentionMarkupRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
