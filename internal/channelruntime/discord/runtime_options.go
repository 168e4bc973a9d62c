package discord

import "strings"

type RunOptions struct {
	// AuthorityUser names the user the system instruction designates as the
	// ultimate authority. Empty disables the clause.
	AuthorityUser string
	// MaxMessageLength bounds the formatted user text sent to the backend,
	// counted in runes.
	MaxMessageLength int
	// MaxQueue is the inbound event buffer; events beyond it block the
	// reader until the worker catches up.
	MaxQueue int
}

func normalizeRunOptions(opts RunOptions) RunOptions {
	opts.AuthorityUser = strings.TrimSpace(opts.AuthorityUser)
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = 2000
	}
	if opts.MaxQueue <= 0 {
		opts.MaxQueue = 64
	}
	return opts
}
