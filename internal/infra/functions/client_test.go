package functions

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_BoostProducts(t *testing.T) {
	var path, auth string
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", 0, discardLogger())
	err := c.BoostProducts(context.Background(),
		[]service.BoostItem{{ProductID: "product-1", ShopID: "shop-1"}}, 24)
	require.NoError(t, err)

	assert.Equal(t, "/boostProducts", path)
	assert.Equal(t, "Bearer secret-token", auth)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(24), data["boostDuration"])
}

func TestClient_ToggleProductArchiveStatus(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, discardLogger())
	err := c.ToggleProductArchiveStatus(context.Background(), service.ArchiveToggle{
		ProductID:     "product-1",
		ArchiveStatus: true,
		Collection:    "products",
	})
	require.NoError(t, err)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "product-1", data["productId"])
	assert.Equal(t, true, data["archiveStatus"])
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0, discardLogger())
	err := c.BoostProducts(context.Background(), []service.BoostItem{{ProductID: "product-1"}}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
