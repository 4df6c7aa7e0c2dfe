// Package session owns the conversation: the append-only message log, the
// busy flag and the layout mode. It is the only place that issues chat
// requests and the only writer of the log.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/diogo/floatchat/internal/api"
	apierrors "github.com/diogo/floatchat/internal/errors"
	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/models"
)

// Controller drives the request/response cycle with the backend
type Controller struct {
	client api.BackendClient

	mu     sync.Mutex
	log    []models.Message
	busy   bool
	layout models.LayoutMode
}

// New creates a controller with an empty log in the initial layout
func New(client api.BackendClient) *Controller {
	return &Controller{
		client: client,
		layout: models.LayoutInitial,
	}
}

// Exchange is a submission whose user turn has been recorded but whose
// backend call has not completed yet
type Exchange struct {
	c      *Controller
	prompt string

	once   sync.Once
	result models.Message
	err    error
}

// Begin validates prompt and records the user turn. On success the
// controller is busy until the returned exchange is run.
// Rejections leave the state untouched.
func (c *Controller) Begin(prompt string) (*Exchange, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return nil, apierrors.ErrBusy
	}

	c.log = append(c.log, models.NewUserMessage(prompt))
	c.layout = c.layout.Advance()
	c.busy = true

	return &Exchange{c: c, prompt: prompt}, nil
}

// Prompt returns the submitted prompt
func (e *Exchange) Prompt() string {
	return e.prompt
}

// Run performs the backend call, appends the assistant turn and clears the
// busy flag. Failures become an error-flavored assistant turn; Run never
// returns an error. Calling Run more than once issues a single request.
func (e *Exchange) Run(ctx context.Context) models.Message {
	e.once.Do(func() {
		e.result, e.err = e.c.complete(ctx, e.prompt)
	})
	return e.result
}

// Err returns the backend failure behind an error-flavored reply, or nil.
// It is only meaningful after Run.
func (e *Exchange) Err() error {
	return e.err
}

func (c *Controller) complete(ctx context.Context, prompt string) (models.Message, error) {
	var msg models.Message

	reply, err := c.client.Chat(ctx, prompt)
	if err != nil {
		logging.Logger().Warn("chat exchange failed", "err", err, "timeout", apierrors.IsTimeoutError(err))
		msg = models.NewErrorMessage(c.client.ChatURL(), err)
	} else {
		msg = models.NewAssistantMessage(reply)
	}

	c.mu.Lock()
	c.log = append(c.log, msg)
	c.busy = false
	c.mu.Unlock()

	return msg, err
}

// Submit records prompt, calls the backend and records the reply
func (c *Controller) Submit(ctx context.Context, prompt string) (models.Message, error) {
	ex, err := c.Begin(prompt)
	if err != nil {
		return models.Message{}, err
	}
	return ex.Run(ctx), nil
}

// Busy reports whether a request is outstanding
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Layout returns the current layout mode
func (c *Controller) Layout() models.LayoutMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// ChatURL returns the endpoint the controller talks to
func (c *Controller) ChatURL() string {
	return c.client.ChatURL()
}

// Snapshot returns a read-only copy of the session state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]models.Message, len(c.log))
	copy(messages, c.log)

	return Snapshot{
		Messages: messages,
		Busy:     c.busy,
		Layout:   c.layout,
	}
}
