// Package state implements the issue status lifecycle for buzz.
package state

import (
	"fmt"

	"github.com/spetersoncode/buzz/internal/models"
)

// Action names what a transition does to an issue.
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionClose  Action = "close"
	ActionReopen Action = "reopen"
)

// TransitionRule defines a valid status change.
type TransitionRule struct {
	From        models.Status
	To          models.Status
	Action      Action
	Description string
}

var validTransitions = []TransitionRule{
	{
		From:        models.StatusOpen,
		To:          models.StatusInProgress,
		Action:      ActionStart,
		Description: "Someone started working on the issue",
	},
	{
		From:        models.StatusOpen,
		To:          models.StatusClosed,
		Action:      ActionClose,
		Description: "Issue closed without work, e.g. a duplicate or an answered question",
	},
	{
		From:        models.StatusInProgress,
		To:          models.StatusOpen,
		Action:      ActionStop,
		Description: "Work stopped, issue is up for grabs again",
	},
	{
		From:        models.StatusInProgress,
		To:          models.StatusClosed,
		Action:      ActionClose,
		Description: "Work finished",
	},
	// Closed issues go back to Open, never straight to In Progress.
	{
		From:        models.StatusClosed,
		To:          models.StatusOpen,
		Action:      ActionReopen,
		Description: "Issue reopened",
	},
}

var transitionRuleMap map[string]*TransitionRule

func init() {
	transitionRuleMap = make(map[string]*TransitionRule, len(validTransitions))
	for i := range validTransitions {
		rule := &validTransitions[i]
		transitionRuleMap[makeTransitionKey(rule.From, rule.To)] = rule
	}
}

func makeTransitionKey(from, to models.Status) string {
	return string(from) + "->" + string(to)
}

// Machine provides state machine operations for issues.
type Machine struct{}

// NewMachine creates a new state machine instance.
func NewMachine() *Machine {
	return &Machine{}
}

// GetTransitionRule returns the rule for a transition, or nil if invalid.
func (m *Machine) GetTransitionRule(from, to models.Status) *TransitionRule {
	return transitionRuleMap[makeTransitionKey(from, to)]
}

// CanTransition returns nil if issue may move to status to, or an error
// explaining why not.
func (m *Machine) CanTransition(issue *models.Issue, to models.Status) error {
	if issue == nil {
		return fmt.Errorf("issue is nil")
	}
	if !to.IsValid() {
		return fmt.Errorf("invalid status %q", to)
	}

	from := issue.Status
	if from == to {
		return fmt.Errorf("issue is already %s", to)
	}
	if m.GetTransitionRule(from, to) == nil {
		return fmt.Errorf("transition from %s to %s is not allowed", from, to)
	}
	return nil
}

// GetValidTransitions returns all valid transitions from the given status.
func (m *Machine) GetValidTransitions(from models.Status) []TransitionRule {
	var transitions []TransitionRule
	for _, rule := range validTransitions {
		if rule.From == from {
			transitions = append(transitions, rule)
		}
	}
	return transitions
}

// NextStatuses lists the statuses reachable from from, in rule order.
func (m *Machine) NextStatuses(from models.Status) []models.Status {
	var statuses []models.Status
	for _, rule := range m.GetValidTransitions(from) {
		statuses = append(statuses, rule.To)
	}
	return statuses
}
