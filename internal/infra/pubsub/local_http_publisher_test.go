package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PublishFulfillmentEvent(t *testing.T) {
	var received PubSubPushMessage
	var requestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	event := &service.FulfillmentEvent{
		EventID:    "event-1",
		RequestID:  "req-1",
		EventType:  service.EventOrdersDelivered,
		OrderIDs:   []string{"order-1", "order-2"},
		OccurredAt: time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.PublishFulfillmentEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "event-1", received.Message.MessageID)
	assert.Equal(t, service.EventOrdersDelivered, received.Message.Attributes["event_type"])

	payload, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.FulfillmentEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, event.OrderIDs, decoded.OrderIDs)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	err := publisher.PublishFulfillmentEvent(context.Background(), &service.FulfillmentEvent{EventID: "event-1"})
	assert.Error(t, err)
}
