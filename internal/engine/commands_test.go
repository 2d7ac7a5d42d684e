package engine

import (
	"context"
	"testing"

	"homecore/internal/mqtt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDeviceCommandLight(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	err := eng.SendDeviceCommand(context.Background(), "light_living_room", map[string]any{"command": "ON"})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "smarthome/light/living_room/command", pub.published[0].topic)
	assert.Equal(t, "ON", pub.published[0].payload)
	assert.Equal(t, byte(1), pub.published[0].qos)
}

func TestSendDeviceCommandLightRejectsBadCommand(t *testing.T) {
	eng := newTestEngine(&fakeStore{}, &fakePublisher{connected: true})

	err := eng.SendDeviceCommand(context.Background(), "light_living_room", map[string]any{"command": "DIM"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSendDeviceCommandAC(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(store, pub)

	err := eng.SendDeviceCommand(context.Background(), "ac_living_room", map[string]any{
		"power":       "ON",
		"temperature": 22.0,
		"fan_speed":   "auto",
	})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "smarthome/ac/living_room/command", pub.published[0].topic)
	assert.JSONEq(t, `{"power":"ON","temperature":22,"fan_speed":"auto"}`, pub.published[0].payload)
}

func TestSendDeviceCommandACValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"temperature too low", map[string]any{"temperature": 15.0}},
		{"temperature too high", map[string]any{"temperature": 31.0}},
		{"bad fan speed", map[string]any{"fan_speed": "turbo"}},
		{"bad power", map[string]any{"power": "on"}},
		{"empty payload", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{connected: true}
			eng := newTestEngine(&fakeStore{}, pub)

			err := eng.SendDeviceCommand(context.Background(), "ac_living_room", tt.payload)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Empty(t, pub.published, "rejected commands never reach the broker")
		})
	}
}

func TestSendDeviceCommandACBoundaryTemperatures(t *testing.T) {
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(&fakeStore{}, pub)

	require.NoError(t, eng.SendDeviceCommand(context.Background(), "ac_living_room", map[string]any{"temperature": 16.0}))
	require.NoError(t, eng.SendDeviceCommand(context.Background(), "ac_living_room", map[string]any{"temperature": 30.0}))
	assert.Len(t, pub.published, 2)
}

func TestSendDeviceCommandUnknownDevice(t *testing.T) {
	eng := newTestEngine(&fakeStore{}, &fakePublisher{connected: true})

	err := eng.SendDeviceCommand(context.Background(), "heater_basement", map[string]any{"command": "ON"})
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestSendDeviceCommandSensorRejected(t *testing.T) {
	eng := newTestEngine(&fakeStore{}, &fakePublisher{connected: true})

	// Sensors carry no command topic, so they surface as unknown devices.
	err := eng.SendDeviceCommand(context.Background(), "temp_living_room", map[string]any{"command": "ON"})
	assert.Error(t, err)
}

func TestSendDeviceCommandRegisteredAtRuntime(t *testing.T) {
	pub := &fakePublisher{connected: true}
	eng := newTestEngine(&fakeStore{}, pub)

	eng.RegisterDeviceTopic("light_bedroom", "smarthome/light/bedroom/command", ClassLight)

	err := eng.SendDeviceCommand(context.Background(), "light_bedroom", map[string]any{"command": "OFF"})
	require.NoError(t, err)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "smarthome/light/bedroom/command", pub.published[0].topic)
}

func TestSendDeviceCommandNotConnected(t *testing.T) {
	eng := newTestEngine(&fakeStore{}, &fakePublisher{connected: false})

	err := eng.SendDeviceCommand(context.Background(), "light_living_room", map[string]any{"command": "ON"})
	assert.ErrorIs(t, err, mqtt.ErrNotConnected)
}
