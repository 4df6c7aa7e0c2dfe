package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/floatchat/internal/errors"
	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/models"
)

// chatRequest is the body of POST /chat. Only "input" is always sent.
type chatRequest struct {
	Input     string `json:"input"`
	SessionID string `json:"session_id,omitempty"`
	ForceSQL  bool   `json:"force_sql,omitempty"`
}

// Chat sends a prompt to the backend and returns the normalized reply.
// There is no retry: one call issues exactly one request.
func (c *Client) Chat(ctx context.Context, prompt string) (*models.ChatReply, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}

	payload, err := json.Marshal(chatRequest{
		Input:     prompt,
		SessionID: c.sessionID,
		ForceSQL:  c.forceSQL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := c.ChatURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log := logging.Logger().With("endpoint", endpoint)
	log.Debug("chat request started", "prompt_len", len(prompt))
	start := time.Now()

	body, err := c.do(req, "chat request")
	if err != nil {
		log.Info("chat request failed", "err", err, "duration", time.Since(start))
		return nil, err
	}

	reply, err := ParseChatReply(body)
	if err != nil {
		log.Info("chat response unparseable", "err", err, "bytes", len(body))
		return nil, err
	}

	log.Info("chat request finished",
		"duration", time.Since(start),
		"table_rows", len(reply.TableData),
		"geo_rows", len(reply.GeoData),
		"has_sql", reply.SQLQuery != "",
	)
	return reply, nil
}

// do executes req and returns the body of a 2xx response
func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	endpoint := req.URL.String()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, operation+" failed", string(errorBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read "+operation+" response", endpoint, err)
	}
	return body, nil
}
