package rules

import "github.com/expr-lang/expr/vm"

// Rule is one parameter constraint: a condition that must hold for a run to
// start. The validator evaluates rules by priority and reports the Message of
// every rule whose condition is false.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = reported first
	Category     string      // grouping for reports (layout, terrain, zones)
	ConditionSrc string      // expr source (preserved for serialization)
	Message      string      // shown when the condition is false
	program      *vm.Program // compiled bytecode
}
