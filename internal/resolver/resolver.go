package resolver

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hcrypto-price-bot/internal/coinindex"
)

// State is the terminal outcome of resolving a user-typed symbol.
type State int

const (
	// NotFound means the catalog has no match even after a forced refresh.
	NotFound State = iota
	// Resolved means exactly one catalog entry matched.
	Resolved
	// Ambiguous means several entries share the symbol and the user has to
	// pick one. Not an error.
	Ambiguous
)

// Purpose tells the chat layer which follow-up action a disambiguation
// button should trigger.
type Purpose int

const (
	PurposePrice Purpose = iota
	PurposeChart
)

// Result of a resolution attempt. ID is set when State is Resolved;
// Candidates is set when State is Ambiguous.
type Result struct {
	State      State
	ID         string
	Candidates []coinindex.Entry
}

// Resolve maps a ticker symbol to provider coin ids using cache. A miss
// forces exactly one catalog refresh and retries the lookup. Ambiguous
// matches are returned in full, never truncated or auto-picked: serving
// the wrong asset silently is worse than asking.
//
// A non-nil error means the provider was unreachable and the catalog was
// never loaded, which the caller must report as "try again later" rather
// than "unknown symbol".
func Resolve(ctx context.Context, cache *coinindex.Cache, symbol string) (Result, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Result{State: NotFound}, nil
	}

	matches := cache.Lookup(symbol)
	if len(matches) == 0 {
		if err := cache.ForceRefresh(ctx); err != nil && !cache.Populated() {
			return Result{}, errors.Wrapf(err, "resolve %q", symbol)
		}
		matches = cache.Lookup(symbol)
	}

	switch len(matches) {
	case 0:
		log.Debugf("no catalog match for symbol %q", symbol)
		return Result{State: NotFound}, nil
	case 1:
		return Result{State: Resolved, ID: matches[0].ID}, nil
	default:
		return Result{State: Ambiguous, Candidates: matches}, nil
	}
}
