// Package mqtt implements the MQTT host function group (SPEC_FULL.md
// §4.5.3: `mqtt_connect`/`mqtt_subscribe`/`mqtt_recv`/`mqtt_ping`).
// Grounded on _examples/original_source/sn0int-std/src/mqtt.rs,
// translated from a hand-rolled CONNECT/SUBSCRIBE/PINGREQ packet codec
// to github.com/eclipse/paho.mqtt.golang's managed client.
package mqtt

import (
	"fmt"
	"net/url"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// a reasonable default for keep-alive; some brokers reject 0 as invalid
// with a very confusing error message.
const (
	defaultPingInterval = 90 * time.Second
	defaultKeepAlive    = 120 * time.Second
)

// Options mirrors MqttOptions.
type Options struct {
	Username string
	Password string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// PingInterval and PingIntervalSet are not read by Connect: paho sends
	// keep-alive pings on its own at the KeepAlive interval, and that
	// auto-ping cannot be turned off.
	PingInterval    time.Duration
	PingIntervalSet bool
	KeepAlive       time.Duration
}

// Pkt is one inbound message surfaced to the script: either a publish
// with a topic/body, or a bare pong (the only two VariablePacket variants
// the original's Pkt enum keeps — everything else is an internal
// protocol detail the script never sees).
type Pkt struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Body  []byte `json:"body,omitempty"`
}

// Client wraps a negotiated paho connection plus the inbound message
// queue fed by its default publish handler.
type Client struct {
	conn     paho.Client
	messages chan Pkt
}

// brokerAddr resolves the mqtt/mqtts scheme to a paho-style tcp/ssl
// scheme and port 1883/8883 default.
func brokerAddr(rawURL string) (scheme, host, port string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid mqtt url: %w", err)
	}

	switch u.Scheme {
	case "mqtt":
		scheme = "tcp"
	case "mqtts":
		scheme = "ssl"
	default:
		return "", "", "", fmt.Errorf("invalid mqtt protocol: %q", u.Scheme)
	}

	host = u.Hostname()
	if host == "" {
		return "", "", "", fmt.Errorf("missing host in url")
	}
	port = u.Port()
	if port == "" {
		if scheme == "ssl" {
			port = "8883"
		} else {
			port = "1883"
		}
	}
	return scheme, host, port, nil
}

// Connect negotiates a CONNECT/CONNACK handshake against rawURL.
func Connect(rawURL string, opts Options) (*Client, error) {
	scheme, host, port, err := brokerAddr(rawURL)
	if err != nil {
		return nil, err
	}

	messages := make(chan Pkt, 64)

	keepAlive := opts.KeepAlive
	if keepAlive == 0 {
		keepAlive = defaultKeepAlive
	}

	connOpts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%s", scheme, host, port)).
		SetClientID("sn0int").
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(connectTimeoutOr(opts.ConnectTimeout)).
		SetAutoReconnect(false).
		SetDefaultPublishHandler(func(_ paho.Client, msg paho.Message) {
			select {
			case messages <- Pkt{Type: "publish", Topic: msg.Topic(), Body: msg.Payload()}:
			default:
			}
		})
	connOpts.OnConnect = func(_ paho.Client) {}

	conn := paho.NewClient(connOpts)
	token := conn.Connect()
	if !token.WaitTimeout(connectTimeoutOr(opts.ConnectTimeout)) {
		return nil, fmt.Errorf("mqtt negotiation timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt negotiation failed: %w", err)
	}

	return &Client{conn: conn, messages: messages}, nil
}

func connectTimeoutOr(d time.Duration) time.Duration {
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// Subscribe filters on topic at the given QoS level (0, 1, or 2).
func (c *Client) Subscribe(topic string, qos byte) error {
	if qos > 2 {
		return fmt.Errorf("invalid qos level: %d", qos)
	}
	token := c.conn.Subscribe(topic, qos, nil)
	token.Wait()
	return token.Error()
}

// RecvPkt returns the next queued publish, or (nil, nil) on timeout —
// the original's WouldBlock-to-None collapse in recv_pkt.
func (c *Client) RecvPkt(timeout time.Duration) (*Pkt, error) {
	select {
	case pkt := <-c.messages:
		return &pkt, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

// Ping reports an error if the client is no longer connected. It sends no
// PINGREQ itself; paho maintains keep-alive pings internally.
func (c *Client) Ping() error {
	if !c.conn.IsConnected() {
		return fmt.Errorf("mqtt client is not connected")
	}
	return nil
}

func (c *Client) Close() {
	c.conn.Disconnect(250)
}
