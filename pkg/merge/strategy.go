package merge

import (
	"github.com/dealsync/dealsync/pkg/errors"
)

// Strategy selects how a detected conflict between the CRM stage and the
// tracker status is resolved. Strategies are configuration values; only
// crm-wins and tracker-wins have resolution behavior today.
type Strategy string

// Accepted strategy names.
const (
	// StrategyCRMWins keeps the CRM stage on conflicting rows.
	StrategyCRMWins Strategy = "crm-wins"

	// StrategyTrackerWins overwrites the stage with the tracker status.
	StrategyTrackerWins Strategy = "tracker-wins"

	// StrategyMostRecent is accepted as configuration but has no
	// resolution behavior; using it is an explicit error.
	StrategyMostRecent Strategy = "most-recent"

	// StrategyManual is accepted as configuration but has no
	// resolution behavior; using it is an explicit error.
	StrategyManual Strategy = "manual"
)

// Strategies returns every accepted strategy name, implemented or not.
func Strategies() []Strategy {
	return []Strategy{StrategyCRMWins, StrategyTrackerWins, StrategyMostRecent, StrategyManual}
}

// ParseStrategy converts a configuration string into a Strategy.
// Unknown names are rejected; known-but-unimplemented names parse fine so
// the configuration surface stays compatible, and fail later in Validate.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyCRMWins, StrategyTrackerWins, StrategyMostRecent, StrategyManual:
		return Strategy(s), nil
	default:
		return "", errors.NewValidationError("conflict_strategy", s, "unknown strategy")
	}
}

// Validate reports whether the strategy can actually resolve conflicts.
// The unimplemented names surface an explicit error rather than silently
// leaving conflicting rows untouched.
func (s Strategy) Validate() error {
	switch s {
	case StrategyCRMWins, StrategyTrackerWins:
		return nil
	case StrategyMostRecent, StrategyManual:
		return errors.NewUnimplementedStrategyError(string(s))
	default:
		return errors.NewValidationError("conflict_strategy", string(s), "unknown strategy")
	}
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyCRMWins:
		return "Conflicting rows keep the CRM stage"
	case StrategyTrackerWins:
		return "Conflicting rows take the tracker status as their stage"
	case StrategyMostRecent:
		return "Most recently modified system wins (not implemented)"
	case StrategyManual:
		return "Conflicts held for manual review (not implemented)"
	default:
		return "Unknown strategy"
	}
}

// resolveStage picks the stage value for a conflicting row.
// Only called for validated strategies.
func (s Strategy) resolveStage(crmStage, trackerStatus string) string {
	if s == StrategyTrackerWins {
		return trackerStatus
	}
	return crmStage
}
