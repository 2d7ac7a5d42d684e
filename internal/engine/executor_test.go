package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteActionUnknownDevice(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	rule := climateRule()
	rule.ActionDeviceID = "heater_basement"
	eng.executeAction(context.Background(), rule, NumberValue(29))

	require.Len(t, store.logs, 1, "exactly one failed log")
	assert.Equal(t, "failed", store.logs[0].result)
	require.NotNil(t, store.logs[0].errorMessage)
	assert.Contains(t, *store.logs[0].errorMessage, "no command topic registered")
	assert.Empty(t, pub.published, "nothing published for unknown device")
}

func TestExecuteActionNotConnected(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: false}
	eng := newTestEngine(store, pub)

	eng.executeAction(context.Background(), climateRule(), NumberValue(29))

	require.Len(t, store.logs, 1)
	assert.Equal(t, "failed", store.logs[0].result)
	require.NotNil(t, store.logs[0].errorMessage)
	assert.Contains(t, *store.logs[0].errorMessage, "not connected")
	assert.Empty(t, pub.published)
}

func TestExecuteActionSuccess(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	eng.executeAction(context.Background(), climateRule(), NumberValue(29))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "smarthome/ac/living_room/command", pub.published[0].topic)
	assert.Equal(t, byte(0), pub.published[0].qos, "automation commands are fire-and-forget")
	assert.JSONEq(t, `{"power":"ON","temperature":18,"fan_speed":"high"}`, pub.published[0].payload)

	require.Len(t, store.logs, 1)
	assert.Equal(t, "success", store.logs[0].result)
	assert.Equal(t, "29", store.logs[0].conditionValue)
	assert.Nil(t, store.logs[0].errorMessage)
}

func TestExecuteActionLightLiteralPayload(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	rule := climateRule()
	rule.ActionDeviceID = "light_living_room"
	rule.ActionPayload = json.RawMessage(`"ON"`)
	eng.executeAction(context.Background(), rule, TextValue("OFF"))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "smarthome/light/living_room/command", pub.published[0].topic)
	assert.Equal(t, "ON", pub.published[0].payload, "bare string payload goes out as a raw literal")
}

func TestEncodeActionPayload(t *testing.T) {
	assert.Equal(t, "ON", string(encodeActionPayload(json.RawMessage(`"ON"`))))
	assert.Equal(t, `{"power":"OFF"}`, string(encodeActionPayload(json.RawMessage(`{"power":"OFF"}`))))
}
