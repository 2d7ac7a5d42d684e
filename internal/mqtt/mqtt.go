package mqtt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// reconnectInterval is the fixed delay between reconnection attempts.
// Reconnection is unbounded; the client retries until shutdown.
const reconnectInterval = 5 * time.Second

// ErrNotConnected is returned by Publish when there is no live session.
// Callers decide whether to drop or surface the failure; the manager never
// buffers or retries a publish.
var ErrNotConnected = errors.New("mqtt client not connected")

// MessageHandler receives every inbound message as (topic, raw payload)
type MessageHandler func(topic string, payload []byte)

// StatusHandler receives connection lifecycle transitions
type StatusHandler func(status, message string)

// Options configures the connection manager
type Options struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	OnStatus  StatusHandler
}

// Manager owns the single long-lived broker connection: connect, subscribe,
// reconnect and publish. At most one live session exists per process.
type Manager struct {
	client    mqtt.Client
	topics    []string
	onMessage MessageHandler
	onStatus  StatusHandler
}

// NewManager builds the manager and its paho client without connecting
func NewManager(opts Options) *Manager {
	m := &Manager{
		onStatus: opts.OnStatus,
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(fmt.Sprintf("%s_%08x", opts.ClientID, rand.Int32())).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(reconnectInterval)
	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}

	clientOpts.OnConnect = func(c mqtt.Client) {
		zap.S().Infof("MQTT: connected to %s", opts.BrokerURL)
		m.subscribeAll()
		m.status("connected", "Successfully connected to MQTT broker")
	}
	clientOpts.OnConnectionLost = func(c mqtt.Client, err error) {
		zap.S().Warnf("MQTT: connection lost: %v", err)
		m.status("disconnected", fmt.Sprintf("Error: %v", err))
	}
	clientOpts.OnReconnecting = func(c mqtt.Client, o *mqtt.ClientOptions) {
		zap.S().Infof("MQTT: attempting to reconnect")
		m.status("reconnecting", "Attempting to reconnect")
	}

	m.client = mqtt.NewClient(clientOpts)
	return m
}

// SetRoutes installs the subscription set and the inbound message handler.
// Must be called before Connect.
func (m *Manager) SetRoutes(topics []string, handler MessageHandler) {
	m.topics = topics
	m.onMessage = handler
}

// Connect establishes the initial session. A failure here is fatal to
// startup; later drops are retried automatically every 5s.
func (m *Manager) Connect() error {
	token := m.client.Connect()
	token.Wait()
	return token.Error()
}

// IsConnected reports whether a live session exists
func (m *Manager) IsConnected() bool {
	return m.client != nil && m.client.IsConnected()
}

// Publish sends a payload to a topic. Fails loudly when not connected.
func (m *Manager) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	token := m.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Disconnect tears down the session, waiting up to quiesce milliseconds
func (m *Manager) Disconnect(quiesce uint) {
	m.client.Disconnect(quiesce)
}

// subscribeAll subscribes the full fixed topic set. Runs on every
// (re)connect since the session is clean.
func (m *Manager) subscribeAll() {
	for _, topic := range m.topics {
		t := topic
		token := m.client.Subscribe(t, 1, func(_ mqtt.Client, msg mqtt.Message) {
			// One pipeline per message so a slow persistence or publish
			// call never blocks ingestion of the next message.
			go m.onMessage(msg.Topic(), msg.Payload())
		})
		token.Wait()
		if err := token.Error(); err != nil {
			zap.S().Errorf("MQTT: failed to subscribe to %s: %v", t, err)
			continue
		}
		zap.S().Infof("MQTT: subscribed to %s", t)
	}
}

func (m *Manager) status(status, message string) {
	if m.onStatus != nil {
		m.onStatus(status, message)
	}
}
