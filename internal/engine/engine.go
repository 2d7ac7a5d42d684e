package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homecore/internal/models"
	"homecore/internal/mqtt"

	"go.uber.org/zap"
)

// Store is the persistence gateway surface the engine needs. All fact tables
// are append-only; the engine never updates or deletes ingested facts.
type Store interface {
	InsertTemperatureReading(ctx context.Context, deviceID string, temperature float64, unit string) error
	InsertDeviceState(ctx context.Context, deviceID, state string, brightness *float64, color *string) error
	InsertDeviceAvailability(ctx context.Context, deviceID, availability string) error
	InsertAutomationLog(ctx context.Context, ruleID int64, conditionValue, result string, errorMessage *string) error
	ListEnabledRulesForDevice(ctx context.Context, deviceID string) ([]models.Rule, error)
}

// Publisher is the broker surface the engine needs for outbound commands
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// StateCache mirrors the latest device state for dashboard reads (optional)
type StateCache interface {
	SetDeviceState(ctx context.Context, deviceID string, doc map[string]any) error
}

// DispatchFunc hands an observation off for asynchronous rule evaluation.
// When nil, or when dispatch fails, evaluation runs inline instead.
type DispatchFunc func(deviceID string, value TriggerValue) error

// Config configures the engine
type Config struct {
	BaseTopic string
	Zones     []string
	Cooldown  time.Duration
}

type handlerFunc func(ctx context.Context, payload []byte)

// Engine routes inbound broker messages to per-class handlers, persists the
// normalized facts and evaluates automation rules against new observations.
type Engine struct {
	store    Store
	pub      Publisher
	cache    StateCache
	registry *DeviceRegistry
	cooldown *CooldownGuard
	dispatch DispatchFunc

	handlers map[string]handlerFunc
	topics   []string
}

// NewEngine creates the engine and binds one handler per known topic
func NewEngine(cfg Config, store Store, pub Publisher, cache StateCache, dispatch DispatchFunc) *Engine {
	e := &Engine{
		store:    store,
		pub:      pub,
		cache:    cache,
		registry: NewDeviceRegistry(),
		cooldown: NewCooldownGuard(cfg.Cooldown),
		dispatch: dispatch,
		handlers: make(map[string]handlerFunc),
	}
	e.bindZones(cfg.BaseTopic, cfg.Zones)
	return e
}

// bindZones builds the fixed topic->handler map and seeds the device
// registry with the built-in per-zone devices.
func (e *Engine) bindZones(base string, zones []string) {
	for _, zone := range zones {
		tempID := fmt.Sprintf("temp_%s", zone)
		lightID := fmt.Sprintf("light_%s", zone)
		acID := fmt.Sprintf("ac_%s", zone)

		e.bind(mqtt.TemperatureStateTopic(base, zone), e.temperatureStateHandler(tempID))
		e.bind(mqtt.TemperatureAvailabilityTopic(base, zone), e.availabilityHandler(tempID))
		e.bind(mqtt.LightStateTopic(base, zone), e.lightStateHandler(lightID))
		e.bind(mqtt.LightAvailabilityTopic(base, zone), e.availabilityHandler(lightID))
		e.bind(mqtt.ACStateTopic(base, zone), e.climateStateHandler(acID))
		e.bind(mqtt.ACAvailabilityTopic(base, zone), e.availabilityHandler(acID))

		e.registry.Register(tempID, "", ClassSensor)
		e.registry.Register(lightID, mqtt.LightCommandTopic(base, zone), ClassLight)
		e.registry.Register(acID, mqtt.ACCommandTopic(base, zone), ClassAC)
	}
}

func (e *Engine) bind(topic string, h handlerFunc) {
	e.handlers[topic] = h
	e.topics = append(e.topics, topic)
}

// Topics returns the full set of topics the engine subscribes to
func (e *Engine) Topics() []string {
	return e.topics
}

// Cooldown exposes the cooldown guard for maintenance jobs. All firing
// decisions still go through TryFire.
func (e *Engine) Cooldown() *CooldownGuard {
	return e.cooldown
}

// RegisterDeviceTopic extends the device registry at runtime
func (e *Engine) RegisterDeviceTopic(deviceID, commandTopic, class string) {
	e.registry.Register(deviceID, commandTopic, class)
	zap.S().Infof("ENGINE: registered device %s -> %s", deviceID, commandTopic)
}

// Route dispatches an inbound message to its topic handler. Unknown topics
// are logged and dropped; handlers never propagate decode failures.
func (e *Engine) Route(topic string, payload []byte) {
	h, ok := e.handlers[topic]
	if !ok {
		zap.S().Infof("ENGINE: unhandled topic %s", topic)
		return
	}
	h(context.Background(), payload)
}

// temperatureStateHandler persists a temperature reading and hands the value
// to rule evaluation.
func (e *Engine) temperatureStateHandler(deviceID string) handlerFunc {
	return func(ctx context.Context, payload []byte) {
		dec := decodeTemperature(payload)
		if dec.kind == decodeInvalid {
			zap.S().Warnf("ENGINE: invalid temperature payload for %s: %q", deviceID, payload)
			return
		}

		if err := e.store.InsertTemperatureReading(ctx, deviceID, dec.temperature, dec.unit); err != nil {
			zap.S().Errorf("ENGINE: failed to persist reading for %s: %v", deviceID, err)
		}
		e.mirror(ctx, deviceID, map[string]any{"temperature": dec.temperature, "unit": dec.unit})

		// Evaluation uses the value just decoded, not a re-read from storage,
		// so a failed write does not block automation.
		e.dispatchEvaluation(ctx, deviceID, NumberValue(dec.temperature))
	}
}

// lightStateHandler persists a light state and hands the state string to
// rule evaluation.
func (e *Engine) lightStateHandler(deviceID string) handlerFunc {
	return func(ctx context.Context, payload []byte) {
		dec := decodeLightState(payload)
		if dec.kind == decodeInvalid {
			zap.S().Warnf("ENGINE: invalid light payload for %s: %q", deviceID, payload)
			return
		}

		if err := e.store.InsertDeviceState(ctx, deviceID, dec.state, dec.brightness, dec.color); err != nil {
			zap.S().Errorf("ENGINE: failed to persist state for %s: %v", deviceID, err)
		}
		doc := map[string]any{"state": dec.state}
		if dec.brightness != nil {
			doc["brightness"] = *dec.brightness
		}
		if dec.color != nil {
			doc["color"] = *dec.color
		}
		e.mirror(ctx, deviceID, doc)

		e.dispatchEvaluation(ctx, deviceID, TextValue(dec.state))
	}
}

// climateStateHandler persists a climate state. Power maps to the state
// column, target temperature and fan speed fill the two attribute slots.
func (e *Engine) climateStateHandler(deviceID string) handlerFunc {
	return func(ctx context.Context, payload []byte) {
		dec := decodeClimateState(payload)
		if dec.kind == decodeInvalid {
			zap.S().Errorf("ENGINE: invalid climate payload for %s: %q", deviceID, payload)
			return
		}

		if err := e.store.InsertDeviceState(ctx, deviceID, dec.power, dec.temperature, dec.fanSpeed); err != nil {
			zap.S().Errorf("ENGINE: failed to persist state for %s: %v", deviceID, err)
		}
		doc := map[string]any{"state": dec.power}
		if dec.temperature != nil {
			doc["temperature"] = *dec.temperature
		}
		if dec.fanSpeed != nil {
			doc["fan_speed"] = *dec.fanSpeed
		}
		e.mirror(ctx, deviceID, doc)

		e.dispatchEvaluation(ctx, deviceID, TextValue(dec.power))
	}
}

// availabilityHandler persists a free-text availability status verbatim,
// lower-cased. Availability changes do not drive automation.
func (e *Engine) availabilityHandler(deviceID string) handlerFunc {
	return func(ctx context.Context, payload []byte) {
		availability := strings.ToLower(string(payload))
		if err := e.store.InsertDeviceAvailability(ctx, deviceID, availability); err != nil {
			zap.S().Errorf("ENGINE: failed to persist availability for %s: %v", deviceID, err)
		}
	}
}

// dispatchEvaluation queues the observation for evaluation, falling back to
// inline evaluation when no dispatcher is wired or the queue is unavailable.
func (e *Engine) dispatchEvaluation(ctx context.Context, deviceID string, value TriggerValue) {
	if e.dispatch != nil {
		err := e.dispatch(deviceID, value)
		if err == nil {
			return
		}
		zap.S().Warnf("ENGINE: dispatch failed for %s, evaluating inline: %v", deviceID, err)
	}
	e.EvaluateObservation(ctx, deviceID, value)
}

// mirror updates the latest-state cache; failures are logged and swallowed
func (e *Engine) mirror(ctx context.Context, deviceID string, doc map[string]any) {
	if e.cache == nil {
		return
	}
	if err := e.cache.SetDeviceState(ctx, deviceID, doc); err != nil {
		zap.S().Warnf("ENGINE: failed to mirror state for %s: %v", deviceID, err)
	}
}
