package actor

import (
	"context"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsguild/warden/pkg/types"
)

// fakeToken is an already-resolved mqtt.Token.
type fakeToken struct {
	done chan struct{}
	err  error
}

func resolvedToken(err error) *fakeToken {
	ch := make(chan struct{})
	close(ch)
	return &fakeToken{done: ch, err: err}
}

func (t *fakeToken) Wait() bool                          { return true }
func (t *fakeToken) WaitTimeout(_ time.Duration) bool     { return true }
func (t *fakeToken) Done() <-chan struct{}                { return t.done }
func (t *fakeToken) Error() error                         { return t.err }

// fakeClient records the last Publish call and implements just enough
// of mqtt.Client for the Shelly actor under test.
type fakeClient struct {
	lastTopic   string
	lastQoS     byte
	lastPayload interface{}
}

func (c *fakeClient) IsConnected() bool      { return true }
func (c *fakeClient) IsConnectionOpen() bool { return true }
func (c *fakeClient) Connect() mqtt.Token    { return resolvedToken(nil) }
func (c *fakeClient) Disconnect(_ uint)      {}
func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.lastTopic = topic
	c.lastQoS = qos
	c.lastPayload = payload
	return resolvedToken(nil)
}
func (c *fakeClient) Subscribe(_ string, _ byte, _ mqtt.MessageHandler) mqtt.Token {
	return resolvedToken(nil)
}
func (c *fakeClient) SubscribeMultiple(_ map[string]byte, _ mqtt.MessageHandler) mqtt.Token {
	return resolvedToken(nil)
}
func (c *fakeClient) Unsubscribe(_ ...string) mqtt.Token       { return resolvedToken(nil) }
func (c *fakeClient) AddRoute(_ string, _ mqtt.MessageHandler) {}
func (c *fakeClient) OptionsReader() mqtt.ClientOptionsReader  { return mqtt.ClientOptionsReader{} }

func TestShellyApplyPublishesOnForInUse(t *testing.T) {
	client := &fakeClient{}
	s := NewShelly("lathe", client, nil)

	require.NoError(t, s.Apply(context.Background(), types.StatusInUse("alice")))
	assert.Equal(t, "shellies/lathe/relay/0/command", client.lastTopic)
	assert.Equal(t, "on", client.lastPayload)
}

func TestShellyApplyPublishesOffForEverythingElse(t *testing.T) {
	client := &fakeClient{}
	s := NewShelly("lathe", client, map[string]string{"topic": "lathe-1"})

	require.NoError(t, s.Apply(context.Background(), types.StatusFree()))
	assert.Equal(t, "shellies/lathe-1/relay/0/command", client.lastTopic)
	assert.Equal(t, "off", client.lastPayload)
}
