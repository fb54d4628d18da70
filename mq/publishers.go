package mq

import (
	"encoding/json"
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/gravitl/scimdir/models"
)

// tokenPublisher - the part of the paho client used to send events
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type disconnecter interface {
	Disconnect(quiesce uint)
}

// Publisher - sends directory change events to the broker
type Publisher struct {
	client tokenPublisher
	closer disconnecter
}

// Publish - sends the event as json on its topic
func (p *Publisher) Publish(event models.DirectoryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	token := p.client.Publish(event.Topic(), 0, false, data)
	if !token.WaitTimeout(MQ_TIMEOUT * time.Second) {
		return errors.New("publish to " + event.Topic() + " timed out")
	}
	return token.Error()
}

// Close - disconnects from the broker
func (p *Publisher) Close() {
	if p.closer != nil {
		p.closer.Disconnect(MQ_DISCONNECT)
	}
}
