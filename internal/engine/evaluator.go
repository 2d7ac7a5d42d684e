package engine

import (
	"context"
	"strconv"
	"strings"
	"time"

	"homecore/internal/models"

	"go.uber.org/zap"
)

// TriggerValue is a newly observed reading handed to rule evaluation: either
// a numeric sensor value or a device state string.
type TriggerValue struct {
	Number  float64 `json:"number"`
	Text    string  `json:"text"`
	Numeric bool    `json:"numeric"`
}

// NumberValue wraps a numeric observation
func NumberValue(v float64) TriggerValue {
	return TriggerValue{Number: v, Numeric: true}
}

// TextValue wraps a state-string observation
func TextValue(s string) TriggerValue {
	return TriggerValue{Text: s}
}

// String renders the value the way it is recorded in automation logs
func (v TriggerValue) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// EvaluateObservation loads the enabled rules bound to the device, tests each
// condition against the observed value and fires the ones that pass the
// cooldown guard. One rule's failure never aborts its siblings.
func (e *Engine) EvaluateObservation(ctx context.Context, deviceID string, value TriggerValue) {
	rules, err := e.store.ListEnabledRulesForDevice(ctx, deviceID)
	if err != nil {
		zap.S().Errorf("AUTOMATION: failed to load rules for %s: %v", deviceID, err)
		return
	}
	if len(rules) == 0 {
		return
	}

	now := time.Now()
	for _, rule := range rules {
		if !conditionMatches(rule, value) {
			continue
		}

		ok, remaining := e.cooldown.TryFire(rule.ID, now)
		if !ok {
			zap.S().Debugf("AUTOMATION: rule %q in cooldown, skipping (%.0fs remaining)",
				rule.Name, remaining.Seconds())
			continue
		}

		zap.S().Infof("AUTOMATION: triggering rule %q (condition: %s, value: %s)",
			rule.Name, rule.ConditionType, value)
		e.executeAction(ctx, rule, value)
	}
}

// conditionMatches tests one rule condition against the observed value.
// A malformed condition value or unknown type evaluates false.
func conditionMatches(rule models.Rule, value TriggerValue) bool {
	switch rule.ConditionType {
	case "temperature_above", "temperature_below", "temperature_equals":
		if !value.Numeric {
			return false
		}
		threshold, err := strconv.ParseFloat(rule.ConditionValue, 64)
		if err != nil {
			zap.S().Warnf("AUTOMATION: rule %q has non-numeric condition value %q",
				rule.Name, rule.ConditionValue)
			return false
		}
		switch rule.ConditionType {
		case "temperature_above":
			return value.Number > threshold
		case "temperature_below":
			return value.Number < threshold
		default:
			return value.Number == threshold
		}

	case "device_state_equals":
		return strings.EqualFold(value.String(), rule.ConditionValue)

	case "device_state_not_equals":
		return !strings.EqualFold(value.String(), rule.ConditionValue)

	default:
		zap.S().Warnf("AUTOMATION: unknown condition type %q on rule %q", rule.ConditionType, rule.Name)
		return false
	}
}
