package publish

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/itohio/goladder/pkg/config"
	"github.com/itohio/goladder/pkg/monitor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoBroker is returned by Connect when no broker is configured.
var ErrNoBroker = errors.New("no mqtt broker configured")

const (
	publishTimeout = 2 * time.Second
	quiesce        = 250 // ms
)

// Message is the JSON payload published for every button change.
type Message struct {
	Symbol   string    `json:"symbol"`
	Label    string    `json:"label"`
	Raw      int       `json:"raw"`
	Voltage  float64   `json:"voltage"`
	Previous string    `json:"previous,omitempty"`
	Time     time.Time `json:"time"`
}

// NewMessage converts a monitor event into a payload.
func NewMessage(ev monitor.Event) Message {
	return Message{
		Symbol:   string(ev.Reading.Symbol),
		Label:    ev.Reading.Label,
		Raw:      ev.Reading.Raw,
		Voltage:  ev.Reading.Voltage,
		Previous: string(ev.Previous),
		Time:     ev.Time,
	}
}

// client is the subset of mqtt.Client used by Publisher.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher sends button events to an MQTT topic.
type Publisher struct {
	client client
	topic  string
	qos    byte
}

// Connect dials the configured broker.
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, ErrNoBroker
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Broker, token.Error())
	}

	logrus.WithFields(logrus.Fields{
		"broker": cfg.Broker,
		"topic":  cfg.Topic,
	}).Info("connected to mqtt broker")

	return newPublisher(c, cfg), nil
}

func newPublisher(c client, cfg config.MQTTConfig) *Publisher {
	topic := cfg.Topic
	if topic == "" {
		topic = config.Default().MQTT.Topic
	}
	return &Publisher{client: c, topic: topic, qos: cfg.QoS}
}

// Topic returns the topic events are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish sends ev as a JSON message and waits for the broker to accept it.
func (p *Publisher) Publish(ev monitor.Event) error {
	payload, err := json.Marshal(NewMessage(ev))
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}

	logrus.WithField("symbol", ev.Reading.Symbol).Debug("published button event")
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(quiesce)
}
