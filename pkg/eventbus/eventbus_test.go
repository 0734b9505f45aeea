package eventbus

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type createdEvent struct {
	code string
}

type otherEvent struct {
	code string
}

func newTestPublisher(buffer *bytes.Buffer) EventBus {
	log := logrus.New()
	log.SetOutput(buffer)
	log.SetLevel(logrus.WarnLevel)
	return NewEventPublisher(log)
}

func TestPublisher_Publish_NoMatchingSubscribers(t *testing.T) {
	logBuffer := bytes.Buffer{}
	publisher := newTestPublisher(&logBuffer)

	publisher.Subscribe(func(e createdEvent) {
		t.Error("should not be called")
	})
	publisher.Publish(otherEvent{code: "E1"})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "eventbus.Publish: no matching subscribers") {
		t.Errorf("should have contained no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Publish_DeliversToTypedHandler(t *testing.T) {
	logBuffer := bytes.Buffer{}
	publisher := newTestPublisher(&logBuffer)

	var got createdEvent
	publisher.Subscribe(func(e createdEvent) {
		got = e
	})
	publisher.Publish(createdEvent{code: "E1"})

	if got.code != "E1" {
		t.Errorf("expected delivered event code E1, got %q", got.code)
	}
	if logBuffer.Len() != 0 {
		t.Errorf("unexpected log output: %q", logBuffer.String())
	}
}

func TestPublisher_Publish_ContextArgumentMatchesInterfaceParam(t *testing.T) {
	logBuffer := bytes.Buffer{}
	publisher := newTestPublisher(&logBuffer)

	called := false
	publisher.Subscribe(func(ctx context.Context, e createdEvent) {
		called = true
		if ctx == nil {
			t.Error("expected a context")
		}
	})
	publisher.Publish(context.Background(), createdEvent{code: "E1"})

	if !called {
		t.Error("handler with a context parameter should have been called")
	}
}

func TestPublisher_Publish_RecoversHandlerPanic(t *testing.T) {
	logBuffer := bytes.Buffer{}
	publisher := newTestPublisher(&logBuffer)

	publisher.Subscribe(func(e createdEvent) {
		panic("boom")
	})
	publisher.Publish(createdEvent{code: "E1"})

	if !strings.Contains(logBuffer.String(), "panicked") {
		t.Errorf("expected panic to be logged, got: %q", logBuffer.String())
	}
}

func TestPublisher_SubscribeAndClear(t *testing.T) {
	publisher := newTestPublisher(&bytes.Buffer{})

	handler := func(e createdEvent) {}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}

	publisher.Clear()
	if publisher.SubscribersCount() != 0 {
		t.Fatalf("expected 0 subscribers after clear, got %d", publisher.SubscribersCount())
	}
}
