package mqtt

import (
	"testing"
	"time"
)

func TestBrokerAddrDefaultsPlainPort(t *testing.T) {
	scheme, host, port, err := brokerAddr("mqtt://broker.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if scheme != "tcp" || host != "broker.example.com" || port != "1883" {
		t.Errorf("got %s %s %s", scheme, host, port)
	}
}

func TestBrokerAddrDefaultsTLSPort(t *testing.T) {
	scheme, host, port, err := brokerAddr("mqtts://broker.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if scheme != "ssl" || host != "broker.example.com" || port != "8883" {
		t.Errorf("got %s %s %s", scheme, host, port)
	}
}

func TestBrokerAddrExplicitPort(t *testing.T) {
	_, _, port, err := brokerAddr("mqtt://broker.example.com:1234")
	if err != nil {
		t.Fatal(err)
	}
	if port != "1234" {
		t.Errorf("got port %s", port)
	}
}

func TestBrokerAddrRejectsInvalidScheme(t *testing.T) {
	if _, _, _, err := brokerAddr("http://broker.example.com"); err == nil {
		t.Fatal("expected an error for a non-mqtt scheme")
	}
}

func TestBrokerAddrRejectsMissingHost(t *testing.T) {
	if _, _, _, err := brokerAddr("mqtt://"); err == nil {
		t.Fatal("expected an error for a missing host")
	}
}

func TestRecvPktTimesOutOnEmptyQueue(t *testing.T) {
	c := &Client{messages: make(chan Pkt, 1)}
	pkt, err := c.RecvPkt(10 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if pkt != nil {
		t.Errorf("expected a nil packet on timeout, got %+v", pkt)
	}
}

func TestRecvPktReturnsQueuedPublish(t *testing.T) {
	c := &Client{messages: make(chan Pkt, 1)}
	c.messages <- Pkt{Type: "publish", Topic: "sensors/temp", Body: []byte("21.5")}

	pkt, err := c.RecvPkt(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if pkt == nil || pkt.Topic != "sensors/temp" || string(pkt.Body) != "21.5" {
		t.Errorf("got %+v", pkt)
	}
}
