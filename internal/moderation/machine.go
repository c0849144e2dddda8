// AngelaMos | 2026
// machine.go

// Package moderation owns the asset review workflow: the status state
// machine and the admin queue.
package moderation

import (
	"fmt"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/core"
)

// Machine validates asset status transitions. In strict mode only pending
// assets may be moderated. In lenient mode a decision overwrites whatever
// status the asset currently has.
type Machine struct {
	strict bool
}

func NewMachine(strict bool) Machine {
	return Machine{strict: strict}
}

func (m Machine) Strict() bool {
	return m.strict
}

// Check returns a wrapped core.ErrInvalidTransition when moving an asset
// from current to target is not allowed. Pending is never a valid target.
func (m Machine) Check(current, target string) error {
	switch target {
	case asset.StatusApproved, asset.StatusRejected:
	default:
		return fmt.Errorf("cannot move asset to %q: %w", target, core.ErrInvalidTransition)
	}

	if !asset.ValidStatus(current) {
		return fmt.Errorf("unknown current status %q: %w", current, core.ErrInvalidTransition)
	}

	if m.strict && current != asset.StatusPending {
		return fmt.Errorf(
			"asset already %s, cannot move to %s: %w",
			current,
			target,
			core.ErrInvalidTransition,
		)
	}

	return nil
}

// Targets lists the statuses reachable from current.
func (m Machine) Targets(current string) []string {
	var out []string
	for _, target := range []string{asset.StatusApproved, asset.StatusRejected} {
		if m.Check(current, target) == nil {
			out = append(out, target)
		}
	}
	return out
}
