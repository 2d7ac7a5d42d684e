package engine

import (
	"errors"
	"sync"
)

// ErrUnknownDevice is returned when a device id has no registered command topic.
var ErrUnknownDevice = errors.New("no command topic registered for device")

// Device classes used for command validation
const (
	ClassSensor = "sensor"
	ClassLight  = "light"
	ClassAC     = "ac"
)

type deviceEntry struct {
	commandTopic string
	class        string
}

// DeviceRegistry maps device ids to command topics and classes. Read-mostly;
// registration may extend it at runtime without a restart.
type DeviceRegistry struct {
	mu      sync.RWMutex
	devices map[string]deviceEntry
}

// NewDeviceRegistry creates an empty registry
func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{devices: make(map[string]deviceEntry)}
}

// Register adds or replaces a device mapping
func (r *DeviceRegistry) Register(deviceID, commandTopic, class string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[deviceID] = deviceEntry{commandTopic: commandTopic, class: class}
}

// CommandTopic resolves a device id to its command topic
func (r *DeviceRegistry) CommandTopic(deviceID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.devices[deviceID]
	if !ok || entry.commandTopic == "" {
		return "", false
	}
	return entry.commandTopic, true
}

// Class reports the device class of a registered device
func (r *DeviceRegistry) Class(deviceID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.devices[deviceID]
	if !ok {
		return "", false
	}
	return entry.class, true
}
