package actor

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hsguild/warden/pkg/types"
)

// publishTimeout bounds how long Apply waits for the broker to
// acknowledge the publish before giving up.
const publishTimeout = 5 * time.Second

// Shelly actuates a Shelly relay over MQTT: InUse(*) publishes "on",
// every other status publishes "off", to shellies/<topic>/relay/0/command.
// A single MQTT client may be shared by any number of Shelly actors
// wired to the same broker; each actor owns one topic.
type Shelly struct {
	name   string
	client mqtt.Client
	topic  string
}

// NewShelly builds a Shelly actor named name, publishing to the relay
// under params["topic"], or under name itself if topic is unset.
func NewShelly(name string, client mqtt.Client, params map[string]string) *Shelly {
	topicName := name
	if t, ok := params["topic"]; ok && t != "" {
		topicName = t
	}
	return &Shelly{
		name:   name,
		client: client,
		topic:  fmt.Sprintf("shellies/%s/relay/0/command", topicName),
	}
}

func (s *Shelly) Apply(ctx context.Context, status types.Status) error {
	payload := "off"
	if status.Kind == types.InUse {
		payload = "on"
	}

	token := s.client.Publish(s.topic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-time.After(publishTimeout):
		return fmt.Errorf("shelly %s: publish to %s timed out", s.name, s.topic)
	case <-ctx.Done():
		return ctx.Err()
	}
}
