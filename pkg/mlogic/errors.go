package mlogic

import "fmt"

// The checker's error taxonomy (spec.md §7). Every error the core returns
// is fatal and non-recoverable within a single Verify invocation — there is
// no retry path, and callers should treat any non-nil error as "reject the
// proof", never as something to patch around and continue.

// StackDisciplineError signals a violation of the tag discipline between
// Pattern and Proved terms: popping from an empty stack, or expecting one
// tag and finding the other.
type StackDisciplineError struct {
	Context string
	Reason  string
}

func (e *StackDisciplineError) Error() string {
	return fmt.Sprintf("stack discipline error in %s: %s", e.Context, e.Reason)
}

// NewStackDisciplineError reports a tag-discipline violation in context.
func NewStackDisciplineError(context, format string, args ...interface{}) error {
	return &StackDisciplineError{Context: context, Reason: fmt.Sprintf(format, args...)}
}

// WellFormednessError signals a structural invariant violation: an
// overlapping MetaVar constraint set, a non-positive Mu body, or a
// redundant/ill-shaped pending substitution.
type WellFormednessError struct {
	Reason string
}

func (e *WellFormednessError) Error() string {
	return fmt.Sprintf("well-formedness violation: %s", e.Reason)
}

// SideConditionError signals a failed freshness, polarity, hole, or
// capture-avoidance check during substitution, instantiation, or rule
// application.
type SideConditionError struct {
	Rule   string
	Reason string
}

func (e *SideConditionError) Error() string {
	return fmt.Sprintf("side-condition violation in %s: %s", e.Rule, e.Reason)
}

// RuleShapeError signals that an inference rule's premises do not have the
// shape the rule requires (e.g. ModusPonens's first premise is not an
// Implies, or the antecedent does not match the second premise).
type RuleShapeError struct {
	Rule   string
	Reason string
}

func (e *RuleShapeError) Error() string {
	return fmt.Sprintf("rule-shape mismatch in %s: %s", e.Rule, e.Reason)
}

// NewWellFormednessError is a convenience constructor matching the style
// of the other error constructors in this package.
func NewWellFormednessError(format string, args ...interface{}) error {
	return &WellFormednessError{Reason: fmt.Sprintf(format, args...)}
}

// NewSideConditionError reports a failed side condition for the named rule.
func NewSideConditionError(rule, format string, args ...interface{}) error {
	return &SideConditionError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// NewRuleShapeError reports a shape mismatch for the named rule.
func NewRuleShapeError(rule, format string, args ...interface{}) error {
	return &RuleShapeError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}
