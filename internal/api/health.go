package api

import (
	"context"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/floatchat/internal/errors"
)

// HealthStatus is the backend's root endpoint reply
type HealthStatus struct {
	Status  string
	Message string
}

// OK reports whether the backend declared itself healthy
func (h *HealthStatus) OK() bool {
	return h != nil && h.Status == "ok"
}

// Health calls GET <base>/ and reports the backend status
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.HealthURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "health check")
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("health response is not valid JSON", "")
	}
	root := gjson.ParseBytes(body)

	return &HealthStatus{
		Status:  root.Get(PathHealthStatus).String(),
		Message: root.Get(PathHealthMessage).String(),
	}, nil
}
