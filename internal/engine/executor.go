package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"homecore/internal/models"
	"homecore/internal/mqtt"

	"go.uber.org/zap"
)

// executeAction resolves the rule's target device, publishes the action
// payload and records the attempt. Every attempted fire produces exactly one
// automation log row, success or failure; errors never reach the caller.
func (e *Engine) executeAction(ctx context.Context, rule models.Rule, trigger TriggerValue) {
	if err := e.publishAction(rule); err != nil {
		zap.S().Errorf("AUTOMATION: failed to execute action for rule %q: %v", rule.Name, err)
		e.logAutomation(ctx, rule, trigger, "failed", err.Error())
		return
	}

	zap.S().Infof("AUTOMATION: executed action for rule %q", rule.Name)
	e.logAutomation(ctx, rule, trigger, "success", "")
}

// publishAction sends the rule's action payload to the target command topic.
// Commands go out fire-and-forget (QoS 0); the automation log is the record.
func (e *Engine) publishAction(rule models.Rule) error {
	topic, ok := e.registry.CommandTopic(rule.ActionDeviceID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, rule.ActionDeviceID)
	}
	if !e.pub.IsConnected() {
		return mqtt.ErrNotConnected
	}
	return e.pub.Publish(topic, encodeActionPayload(rule.ActionPayload), 0, false)
}

// encodeActionPayload renders a stored action payload for the wire. A bare
// JSON string ("ON") becomes the raw literal a light expects; anything else
// passes through as JSON.
func encodeActionPayload(payload json.RawMessage) []byte {
	var literal string
	if err := json.Unmarshal(payload, &literal); err == nil {
		return []byte(literal)
	}
	return []byte(payload)
}

func (e *Engine) logAutomation(ctx context.Context, rule models.Rule, trigger TriggerValue, result, errMsg string) {
	var msg *string
	if errMsg != "" {
		msg = &errMsg
	}
	if err := e.store.InsertAutomationLog(ctx, rule.ID, trigger.String(), result, msg); err != nil {
		zap.S().Errorf("AUTOMATION: failed to log execution of rule %q: %v", rule.Name, err)
	}
}
