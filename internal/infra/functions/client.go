// Package functions is an HTTP client for the callable catalog backend.
// Payloads follow the callable convention: POST {baseUrl}/{function} with a
// JSON body of the form {"data": ...}.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/config"
	"fulfillment/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultTimeout = 30 * time.Second

	boostProductsFunction = "boostProducts"
	toggleArchiveFunction = "toggleProductArchiveStatus"
)

// client implements service.CatalogFunctions over HTTP.
type client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientParams holds dependencies for the functions client, injected by Fx
type ClientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewCatalogFunctions creates the callable-backend client from configuration.
func NewCatalogFunctions(params ClientParams) (service.CatalogFunctions, error) {
	cfg := params.Config.Functions
	if cfg == nil || cfg.BaseURL == "" {
		return nil, errors.New("functions base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		baseURL:    cfg.BaseURL,
		authToken:  cfg.AuthToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     params.Logger,
	}, nil
}

// NewClient creates the callable-backend client directly, for callers outside
// the Fx graph.
func NewClient(baseURL, authToken string, timeout time.Duration, logger *slog.Logger) service.CatalogFunctions {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BoostProducts boosts the given products for boostDuration hours.
func (c *client) BoostProducts(ctx context.Context, items []service.BoostItem, boostDuration int) error {
	payload := map[string]any{
		"items":         items,
		"boostDuration": boostDuration,
	}

	return c.call(ctx, boostProductsFunction, payload)
}

// ToggleProductArchiveStatus archives or unarchives a product.
func (c *client) ToggleProductArchiveStatus(ctx context.Context, toggle service.ArchiveToggle) error {
	return c.call(ctx, toggleArchiveFunction, toggle)
}

// call invokes one callable function and fails on any non-2xx response.
func (c *client) call(ctx context.Context, function string, payload any) error {
	body, err := json.Marshal(map[string]any{"data": payload})
	if err != nil {
		return errors.WithStack(err)
	}

	url := c.baseURL + "/" + function
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	c.logger.Debug("[Functions] Calling catalog function",
		slog.String("function", function),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s failed", function)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return errors.Errorf("%s returned status %d: %s", function, resp.StatusCode, string(detail))
	}

	return nil
}

// Module provides the callable-functions FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewCatalogFunctions),
)
