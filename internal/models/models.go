package models

import (
	"encoding/json"
	"time"
)

// Device represents a registered device
type Device struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	DeviceType string    `json:"device_type"` // "sensor", "light", "ac"
	Location   string    `json:"location"`
	MQTTTopic  string    `json:"mqtt_topic"` // command topic
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TemperatureReading is one row in temperature_readings
type TemperatureReading struct {
	ID          int64     `json:"id"`
	DeviceID    string    `json:"device_id"`
	Temperature float64   `json:"temperature"`
	Unit        string    `json:"unit"`
	Timestamp   time.Time `json:"timestamp"`
}

// DeviceState is one row in device_states. Brightness and Color are generic
// attribute slots: a light stores brightness/color, a climate unit stores
// target temperature/fan speed in the same two columns.
type DeviceState struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	State      string    `json:"state"`
	Brightness *float64  `json:"brightness,omitempty"`
	Color      *string   `json:"color,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// DeviceAvailability is one row in device_availability
type DeviceAvailability struct {
	ID           int64     `json:"id"`
	DeviceID     string    `json:"device_id"`
	Availability string    `json:"availability"`
	Timestamp    time.Time `json:"timestamp"`
}

// ConnectionStatus is one row in mqtt_connection_status
type ConnectionStatus struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"` // "connected", "disconnected", "reconnecting"
	Message   *string   `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Rule represents an automation rule. ConditionValue is always stored as text
// and parsed per ConditionType at evaluation time; ActionPayload is passed
// through verbatim to the action topic.
type Rule struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Enabled           bool            `json:"enabled"`
	ConditionType     string          `json:"condition_type"`
	ConditionDeviceID string          `json:"condition_device_id"`
	ConditionValue    string          `json:"condition_value"`
	ActionType        string          `json:"action_type"`
	ActionDeviceID    string          `json:"action_device_id"`
	ActionPayload     json.RawMessage `json:"action_payload"`
}

// AutomationLog is one row in automation_logs
type AutomationLog struct {
	ID             int64     `json:"id"`
	RuleID         int64     `json:"rule_id"`
	ConditionValue string    `json:"condition_value"`
	ActionResult   string    `json:"action_result"` // "success" or "failed"
	ErrorMessage   *string   `json:"error_message,omitempty"`
	TriggeredAt    time.Time `json:"triggered_at"`
}
