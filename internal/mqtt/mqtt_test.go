package mqtt

import (
	"testing"

	"github.com/Mavwarf/appicon/internal/config"
)

func TestPublishBadBroker(t *testing.T) {
	// Connecting to a non-existent broker should return a connect error.
	cfg := config.MQTT{Broker: "tcp://127.0.0.1:19999", Topic: "test/topic"}
	if err := Publish(cfg, "hello"); err == nil {
		t.Fatal("expected error for unreachable broker")
	}
}

func TestPublishBadScheme(t *testing.T) {
	// A completely invalid broker URL should fail.
	cfg := config.MQTT{Broker: "not-a-url", ClientID: "test-client", Topic: "test/topic"}
	if err := Publish(cfg, "hello"); err == nil {
		t.Fatal("expected error for invalid broker URL")
	}
}
