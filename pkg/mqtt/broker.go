package mqtt

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/fhmq/hmq/broker"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// the deleted topics after which the topic map gets recreated.
	topicCleanupThreshold = 10000
)

// Envelope wraps every published payload.
type Envelope struct {
	// ID is unique per published message.
	ID        string      `json:"id"`
	Topic     string      `json:"topic"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEnvelope wraps the data for the given topic.
func NewEnvelope(topic string, data interface{}) *Envelope {
	return &Envelope{
		ID:        uuid.New().String(),
		Topic:     topic,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

// Broker is a simple mqtt publisher abstraction.
type Broker struct {
	broker       *broker.Broker
	config       *broker.Config
	topicManager *topicManager
}

// NewBroker creates a new broker.
func NewBroker(bindAddress string, wsPort int, wsPath string, workerCount int, onSubscribe OnSubscribeHandler, onUnsubscribe OnUnsubscribeHandler) (*Broker, error) {

	host, port, err := net.SplitHostPort(bindAddress)
	if err != nil {
		return nil, fmt.Errorf("configure broker config error: %w", err)
	}

	c, err := broker.ConfigureConfig([]string{
		fmt.Sprintf("--worker=%d", workerCount),
		fmt.Sprintf("--host=%s", host),
		fmt.Sprintf("--port=%s", port),
		fmt.Sprintf("--wsport=%d", wsPort),
		fmt.Sprintf("--wspath=%s", wsPath),
	})
	if err != nil {
		return nil, fmt.Errorf("configure broker config error: %w", err)
	}

	t := newTopicManager(onSubscribe, onUnsubscribe, topicCleanupThreshold)

	b, err := broker.NewBroker(c)
	if err != nil {
		return nil, fmt.Errorf("create new broker error: %w", err)
	}

	return &Broker{
		broker:       b,
		config:       c,
		topicManager: t,
	}, nil
}

// Start the broker.
func (b *Broker) Start() {
	b.broker.Start()
}

// Config returns the broker config instance.
func (b *Broker) Config() *broker.Config {
	return b.config
}

// HasSubscribers tells whether anybody listens on the topic.
func (b *Broker) HasSubscribers(topic string) bool {
	return b.topicManager.hasSubscribers(topic)
}

// TopicsSize returns the number of subscribed topics.
func (b *Broker) TopicsSize() int {
	return b.topicManager.Size()
}

// Send publishes a raw message.
func (b *Broker) Send(topic string, payload []byte) {

	packet := packets.NewControlPacket(packets.Publish).(*packets.PublishPacket)
	packet.TopicName = topic
	packet.Qos = 0
	packet.Payload = payload

	b.broker.PublishMessage(packet)
}

// PublishJSON wraps the data in an Envelope and publishes it, if the topic has subscribers.
func (b *Broker) PublishJSON(topic string, data interface{}) error {
	if !b.HasSubscribers(topic) {
		return nil
	}

	payload, err := json.Marshal(NewEnvelope(topic, data))
	if err != nil {
		return errors.Wrapf(err, "failed to serialize message for topic %s", topic)
	}

	b.Send(topic, payload)
	return nil
}
