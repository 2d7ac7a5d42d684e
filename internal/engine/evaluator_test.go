package engine

import (
	"context"
	"encoding/json"
	"testing"

	"homecore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionMatches(t *testing.T) {
	rule := func(condType, condValue string) models.Rule {
		return models.Rule{Name: "test", ConditionType: condType, ConditionValue: condValue}
	}

	tests := []struct {
		name  string
		rule  models.Rule
		value TriggerValue
		want  bool
	}{
		{"above true", rule("temperature_above", "28"), NumberValue(29), true},
		{"above false at boundary", rule("temperature_above", "28"), NumberValue(28), false},
		{"above rejects text", rule("temperature_above", "28"), TextValue("29"), false},
		{"below true", rule("temperature_below", "18"), NumberValue(17.5), true},
		{"below false", rule("temperature_below", "18"), NumberValue(18), false},
		{"equals true", rule("temperature_equals", "21.5"), NumberValue(21.5), true},
		{"equals false", rule("temperature_equals", "21.5"), NumberValue(21.6), false},
		{"state equals case-insensitive", rule("device_state_equals", "on"), TextValue("ON"), true},
		{"state equals false", rule("device_state_equals", "on"), TextValue("OFF"), false},
		{"state equals matches numeric text", rule("device_state_equals", "29"), NumberValue(29), true},
		{"state not equals", rule("device_state_not_equals", "off"), TextValue("ON"), true},
		{"state not equals false", rule("device_state_not_equals", "Off"), TextValue("OFF"), false},
		{"unknown type", rule("humidity_above", "50"), NumberValue(60), false},
		{"malformed threshold", rule("temperature_above", "very hot"), NumberValue(40), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conditionMatches(tt.rule, tt.value))
		})
	}
}

func TestEvaluateObservationNoRules(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	eng.EvaluateObservation(context.Background(), "temp_living_room", NumberValue(29))

	assert.Equal(t, []string{"temp_living_room"}, store.ruleQueries, "lookup still performed")
	assert.Empty(t, store.logs)
	assert.Empty(t, pub.published)
}

func TestEvaluateObservationRuleIsolation(t *testing.T) {
	broken := models.Rule{
		ID:                10,
		Name:              "broken threshold",
		Enabled:           true,
		ConditionType:     "temperature_above",
		ConditionDeviceID: "temp_living_room",
		ConditionValue:    "not-a-number",
		ActionDeviceID:    "ac_living_room",
		ActionPayload:     json.RawMessage(`{"power":"ON"}`),
	}
	working := climateRule()
	store := &fakeStore{rules: []models.Rule{broken, working}}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	eng.EvaluateObservation(context.Background(), "temp_living_room", NumberValue(30))

	require.Len(t, store.logs, 1, "broken rule is skipped, sibling still fires")
	assert.Equal(t, working.ID, store.logs[0].ruleID)
	assert.Equal(t, "success", store.logs[0].result)
}

func TestEvaluateObservationCooldownSuppression(t *testing.T) {
	store := &fakeStore{rules: []models.Rule{climateRule()}}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	eng.EvaluateObservation(context.Background(), "temp_living_room", NumberValue(29))
	eng.EvaluateObservation(context.Background(), "temp_living_room", NumberValue(29))

	require.Len(t, store.logs, 1, "second candidate suppressed")
	require.Len(t, pub.published, 1)
}

func TestEvaluateObservationDisabledRulesExcluded(t *testing.T) {
	disabled := climateRule()
	disabled.Enabled = false
	store := &fakeStore{rules: []models.Rule{disabled}}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	eng.EvaluateObservation(context.Background(), "temp_living_room", NumberValue(35))

	assert.Empty(t, store.logs)
	assert.Empty(t, pub.published)
}

func TestTriggerValueString(t *testing.T) {
	assert.Equal(t, "29", NumberValue(29).String())
	assert.Equal(t, "21.5", NumberValue(21.5).String())
	assert.Equal(t, "ON", TextValue("ON").String())
}
