// Package mqttbus implements the middleware interfaces over MQTT.
package mqttbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lucsky/cuid"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// Config holds MQTT bus configuration.
type Config struct {
	BrokerURL     string
	ClientID      string
	Namespace     string
	ArmingTimeout time.Duration
}

// Bus is an MQTT-backed implementation of the bus interfaces. Outgoing
// setpoints are published QoS 0, fire-and-forget; arming runs as a
// request/response pair correlated by ID.
type Bus struct {
	client        mqtt.Client
	ns            string
	armingTimeout time.Duration

	mu      sync.Mutex
	pending map[string]chan bool
}

type armingRequest struct {
	ID  string `json:"id"`
	Arm bool   `json:"arm"`
}

type armingAck struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// Connect dials the broker and subscribes the arming ack topic.
func Connect(cfg Config) (*Bus, error) {
	armingTimeout := cfg.ArmingTimeout
	if armingTimeout <= 0 {
		armingTimeout = 2 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.BrokerURL, token.Error())
	}

	b := &Bus{
		client:        client,
		ns:            cfg.Namespace,
		armingTimeout: armingTimeout,
		pending:       make(map[string]chan bool),
	}

	if token := client.Subscribe(b.topic("cmd/arming/ack"), 0, b.onArmingAck); token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("mqtt subscribe arming ack: %w", token.Error())
	}

	log.Printf("Connected to MQTT broker %s (namespace %q)", cfg.BrokerURL, b.ns)
	return b, nil
}

// Close disconnects from the broker.
func (b *Bus) Close() {
	b.client.Disconnect(250)
}

func (b *Bus) topic(suffix string) string {
	return Topic(b.ns, suffix)
}

// Topic joins a namespace and a topic suffix.
func Topic(ns, suffix string) string {
	if ns == "" {
		return suffix
	}
	return ns + "/" + suffix
}

func (b *Bus) publishJSON(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}
	token := b.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// SubscribeJoy implements bus.JoySource. Malformed payloads are logged and
// dropped.
func (b *Bus) SubscribeJoy(handler func(msg.Joy)) error {
	cb := func(_ mqtt.Client, m mqtt.Message) {
		var j msg.Joy
		if err := json.Unmarshal(m.Payload(), &j); err != nil {
			log.Printf("dropping unparseable joy message: %v", err)
			return
		}
		handler(j)
	}
	if token := b.client.Subscribe(b.topic("joy"), 0, cb); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe joy: %w", token.Error())
	}
	return nil
}

// PublishOverride implements bus.OverridePublisher.
func (b *Bus) PublishOverride(frame *msg.OverrideFrame) error {
	return b.publishJSON(b.topic("rc/override"), frame)
}

// PublishAttitude implements bus.AttitudePublisher.
func (b *Bus) PublishAttitude(pose msg.PoseStamped) error {
	return b.publishJSON(b.topic("setpoint_attitude/attitude"), pose)
}

// PublishThrottle implements bus.AttitudePublisher.
func (b *Bus) PublishThrottle(throttle msg.Float64Stamped) error {
	return b.publishJSON(b.topic("setpoint_attitude/att_throttle"), throttle)
}

// PublishVelocity implements bus.VelocityPublisher.
func (b *Bus) PublishVelocity(twist msg.TwistStamped) error {
	return b.publishJSON(b.topic("setpoint_velocity/cmd_vel"), twist)
}

// PublishPosition implements bus.PositionPublisher.
func (b *Bus) PublishPosition(pose msg.PoseStamped) error {
	return b.publishJSON(b.topic("setpoint_position/local"), pose)
}

// Arm implements bus.ArmingClient: publish a correlated request and wait
// for the matching ack or a timeout.
func (b *Bus) Arm(ctx context.Context, arm bool) error {
	id := cuid.New()
	ack := make(chan bool, 1)

	b.mu.Lock()
	b.pending[id] = ack
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	if err := b.publishJSON(b.topic("cmd/arming"), armingRequest{ID: id, Arm: arm}); err != nil {
		return err
	}

	select {
	case success := <-ack:
		if !success {
			return fmt.Errorf("arming service rejected request (arm=%v)", arm)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.armingTimeout):
		return fmt.Errorf("arming request timed out after %v", b.armingTimeout)
	}
}

func (b *Bus) onArmingAck(_ mqtt.Client, m mqtt.Message) {
	var ack armingAck
	if err := json.Unmarshal(m.Payload(), &ack); err != nil {
		log.Printf("dropping unparseable arming ack: %v", err)
		return
	}
	b.mu.Lock()
	ch, ok := b.pending[ack.ID]
	b.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- ack.Success:
	default:
	}
}
