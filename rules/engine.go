// Package rules checks run parameters against expr-lang constraint rules
// before any stochastic work starts.
package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-mapgen/model"
)

// Violation is a rule whose condition did not hold.
type Violation struct {
	Rule     string `json:"rule"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	return v.Rule + ": " + v.Message
}

// Validator runs compiled rules against run parameters. It is safe for
// concurrent use; Swap replaces the rule set atomically.
type Validator struct {
	mu     sync.RWMutex
	rules  []*Rule
	Logger *slog.Logger // slog.Default() when nil
}

func (v *Validator) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.Default()
}

// NewValidator compiles all rule conditions into expr bytecode and sorts by
// priority.
func NewValidator(rules []*Rule) (*Validator, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Validator{rules: compiled}, nil
}

// Validate evaluates every rule against p and returns the violations in
// priority order. A condition that fails to evaluate counts as violated.
func (v *Validator) Validate(p model.Params) []Violation {
	v.mu.RLock()
	rules := v.rules
	v.mu.RUnlock()

	env := ParamEnv{Params: p}
	log := v.logger()
	var out []Violation
	for _, r := range rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			log.Warn("rule condition error", "rule", r.Name, "error", err)
			out = append(out, Violation{Rule: r.Name, Category: r.Category, Message: err.Error()})
			continue
		}
		if ok, _ := result.(bool); !ok {
			log.Debug("rule violated", "rule", r.Name, "priority", r.Priority, "category", r.Category)
			out = append(out, Violation{Rule: r.Name, Category: r.Category, Message: r.Message})
		}
	}
	return out
}

// Swap replaces the rule set (used when the host sends new limits). Compiles
// first; if compilation fails the old rules remain active.
func (v *Validator) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.rules = compiled
	v.mu.Unlock()
	v.logger().Info("rule set swapped", "count", len(compiled))
	return nil
}

// Names lists the active rules in evaluation order.
func (v *Validator) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, len(v.rules))
	for i, r := range v.rules {
		names[i] = r.Name
	}
	return names
}

// Summary joins violations into one line for error messages.
func Summary(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(ParamEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
