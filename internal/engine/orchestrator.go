// Package engine evaluates the rule waterfall per relationship, shapes the
// combined result set, and drives batch generation.
package engine

import (
	"fmt"
	"sort"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/logging"
	"github.com/kinship-hq/kinship/internal/rules"
)

// Orchestrator walks the registered rules in ascending priority and returns
// the first suggestion any rule produces.
type Orchestrator struct {
	rules []rules.Rule
	log   *logging.Logger
}

// NewOrchestrator sorts and registers the given rules. With no rules it
// returns ErrNoRules; an empty waterfall is always a wiring mistake.
func NewOrchestrator(rs []rules.Rule) (*Orchestrator, error) {
	if len(rs) == 0 {
		return nil, core.ErrNoRules
	}
	sorted := make([]rules.Rule, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Priority() == sorted[i-1].Priority() {
			return nil, fmt.Errorf("rules %q and %q share priority %d",
				sorted[i-1].Name(), sorted[i].Name(), sorted[i].Priority())
		}
	}
	return &Orchestrator{
		rules: sorted,
		log:   logging.Component("engine"),
	}, nil
}

// Rules returns the registered rules in evaluation order.
func (o *Orchestrator) Rules() []rules.Rule {
	out := make([]rules.Rule, len(o.rules))
	copy(out, o.rules)
	return out
}

// ForRelationship evaluates the waterfall for one relationship. A rule
// returning an error or panicking is logged and skipped so one bad rule
// cannot silence the rest of the waterfall.
func (o *Orchestrator) ForRelationship(rc rules.Context) *core.Suggestion {
	for _, r := range o.rules {
		s, err := o.evaluate(r, rc)
		if err != nil {
			o.log.WithFields(map[string]interface{}{
				"rule":         r.Name(),
				"relationship": rc.Relationship.ID,
			}).Warn("rule failed: %v", err)
			continue
		}
		if s != nil {
			return s
		}
	}
	return nil
}

func (o *Orchestrator) evaluate(r rules.Rule, rc rules.Context) (s *core.Suggestion, err error) {
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, fmt.Errorf("rule %q panicked: %v", r.Name(), p)
		}
	}()
	return r.Generate(rc)
}
