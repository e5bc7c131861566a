package exclusion

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// defaultRules filters the wrapped/pegged/derivative token noise out of
// the CoinGecko catalog so a plain ticker resolves to the real asset.
var defaultRules = []string{
	"wrapped",
	"-peg-",
	"binance-peg",
	"-wormhole",
	"bridged",
	"-iou",
	"tokenized-",
}

// Source provides the current rule list from a remote service.
type Source interface {
	ExcludedRules(ctx context.Context) ([]string, error)
}

// RuleSet is a set of substrings; an id containing any of them is dropped
// from catalog lookups. Rules are replaced wholesale on refresh.
type RuleSet struct {
	source Source

	mu    sync.RWMutex
	rules []string
}

// New builds a rule set starting from rules (nil means the built-in
// defaults). source may be nil when no remote service is configured.
func New(rules []string, source Source) *RuleSet {
	if rules == nil {
		rules = defaultRules
	}
	return &RuleSet{source: source, rules: rules}
}

func Defaults() []string {
	out := make([]string, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// IsExcluded reports whether id contains any rule as a case-sensitive
// substring.
func (r *RuleSet) IsExcluded(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		if rule != "" && strings.Contains(id, rule) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the current rule list.
func (r *RuleSet) Rules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.rules))
	copy(out, r.rules)
	return out
}

// Refresh replaces the rules from the remote source. Without a source it
// is a no-op; on failure the current rules stay in place.
func (r *RuleSet) Refresh(ctx context.Context) error {
	if r.source == nil {
		return nil
	}

	rules, err := r.source.ExcludedRules(ctx)
	if err != nil {
		log.Errorf("failed to refresh exclusion rules, keeping previous: %v", err)
		return err
	}

	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()

	log.Debugf("loaded %d exclusion rules", len(rules))
	return nil
}
