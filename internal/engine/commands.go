package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ValidationError rejects a malformed device command before anything reaches
// the broker.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// validFanSpeeds enumerates the accepted AC fan speeds
var validFanSpeeds = map[string]bool{"low": true, "medium": true, "high": true, "auto": true}

// acCommand is the command shape accepted for climate units
type acCommand struct {
	Power       string   `json:"power,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	FanSpeed    string   `json:"fan_speed,omitempty"`
}

// SendDeviceCommand validates a command payload for the device's class and
// publishes it to the device's command topic. Exposed to the API layer;
// validation failures surface as *ValidationError and never reach the broker.
func (e *Engine) SendDeviceCommand(ctx context.Context, deviceID string, payload map[string]any) error {
	topic, ok := e.registry.CommandTopic(deviceID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	class, _ := e.registry.Class(deviceID)

	var wire []byte
	switch class {
	case ClassLight:
		command, err := validateLightCommand(payload)
		if err != nil {
			return err
		}
		wire = []byte(command)

	case ClassAC:
		command, err := validateACCommand(payload)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(command)
		if err != nil {
			return err
		}
		wire = raw

	default:
		return &ValidationError{Reason: fmt.Sprintf("device %s does not accept commands", deviceID)}
	}

	if err := e.pub.Publish(topic, wire, 1, false); err != nil {
		return err
	}
	zap.S().Infof("ENGINE: sent command to %s: %s", deviceID, wire)
	return nil
}

// validateLightCommand accepts {"command": "ON"|"OFF"} and returns the raw
// literal the light expects on the wire.
func validateLightCommand(payload map[string]any) (string, error) {
	command, _ := payload["command"].(string)
	if command != "ON" && command != "OFF" {
		return "", &ValidationError{Reason: `command must be either "ON" or "OFF"`}
	}
	return command, nil
}

// validateACCommand checks the optional power/temperature/fan_speed fields.
// At least one must be present; temperature is bounded to 16-30 inclusive.
func validateACCommand(payload map[string]any) (*acCommand, error) {
	cmd := &acCommand{}

	if raw, ok := payload["power"]; ok {
		power, _ := raw.(string)
		if power != "ON" && power != "OFF" {
			return nil, &ValidationError{Reason: "power must be ON or OFF"}
		}
		cmd.Power = power
	}

	if raw, ok := payload["temperature"]; ok {
		temperature, ok := toFloat(raw)
		if !ok || temperature < 16 || temperature > 30 {
			return nil, &ValidationError{Reason: "temperature must be between 16 and 30"}
		}
		cmd.Temperature = &temperature
	}

	if raw, ok := payload["fan_speed"]; ok {
		fanSpeed, _ := raw.(string)
		if !validFanSpeeds[fanSpeed] {
			return nil, &ValidationError{Reason: "invalid fan speed, must be: low, medium, high, or auto"}
		}
		cmd.FanSpeed = fanSpeed
	}

	if cmd.Power == "" && cmd.Temperature == nil && cmd.FanSpeed == "" {
		return nil, &ValidationError{Reason: "at least one parameter (power, temperature, fan_speed) is required"}
	}
	return cmd, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
