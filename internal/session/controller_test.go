package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diogo/floatchat/internal/api"
	apierrors "github.com/diogo/floatchat/internal/errors"
	"github.com/diogo/floatchat/internal/models"
)

func mustParse(t *testing.T, body string) *models.ChatReply {
	t.Helper()
	reply, err := api.ParseChatReply([]byte(body))
	if err != nil {
		t.Fatalf("ParseChatReply(%s): %v", body, err)
	}
	return reply
}

func TestController_InitialState(t *testing.T) {
	c := New(&api.MockClient{})
	snap := c.Snapshot()

	if len(snap.Messages) != 0 {
		t.Errorf("log should start empty, got %d", len(snap.Messages))
	}
	if snap.Busy {
		t.Error("controller should start idle")
	}
	if snap.Layout != models.LayoutInitial {
		t.Errorf("Layout = %s, want initial", snap.Layout)
	}
}

func TestController_Submit(t *testing.T) {
	mock := &api.MockClient{ChatReply: mustParse(t, `{"output":"Hello","table_data":null,"geo_data":null,"sql_query":null}`)}
	c := New(mock)

	msg, err := c.Submit(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Messages) != 2 {
		t.Fatalf("log length = %d, want 2", len(snap.Messages))
	}
	if snap.Busy {
		t.Error("busy must be cleared after Submit")
	}
	if snap.Layout != models.LayoutDashboard {
		t.Errorf("Layout = %s, want dashboard", snap.Layout)
	}

	user := snap.Messages[0]
	if user.Role != models.RoleUser || user.Content != "hi" {
		t.Errorf("unexpected user turn %+v", user)
	}
	if msg.Content != "Hello" || msg.TableData != nil || msg.GeoData != nil || msg.SQLQuery != "" {
		t.Errorf("unexpected assistant turn %+v", msg)
	}
	if mock.CallCount() != 1 || mock.Prompts[0] != "hi" {
		t.Errorf("backend prompts = %v", mock.Prompts)
	}
}

func TestController_SubmitShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		geoPts  int
		hasViz  bool
		sqlWant string
	}{
		{name: "wrapped", body: `{"data":{"output":"Hi"}}`, want: "Hi"},
		{name: "flat", body: `{"output":"Hi"}`, want: "Hi"},
		{name: "missing output", body: `{"table_data":[]}`, want: models.NoResponseText, hasViz: true},
		{
			name:   "geo filter",
			body:   `{"output":"map","geo_data":[{"latitude":10,"longitude":20},{"lat":"bad"}]}`,
			want:   "map",
			geoPts: 1,
			hasViz: true,
		},
		{name: "sql", body: `{"output":"q","sql_query":"SELECT 1"}`, want: "q", sqlWant: "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&api.MockClient{ChatReply: mustParse(t, tt.body)})

			msg, err := c.Submit(context.Background(), "prompt")
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if msg.Content != tt.want {
				t.Errorf("Content = %q, want %q", msg.Content, tt.want)
			}
			if got := len(models.GeoPoints(msg.GeoData)); got != tt.geoPts {
				t.Errorf("plotted points = %d, want %d", got, tt.geoPts)
			}
			if _, ok := c.Snapshot().LatestVisualization(); ok != tt.hasViz {
				t.Errorf("LatestVisualization ok = %v, want %v", ok, tt.hasViz)
			}
			if msg.SQLQuery != tt.sqlWant {
				t.Errorf("SQLQuery = %q, want %q", msg.SQLQuery, tt.sqlWant)
			}
		})
	}
}

func TestController_TransportFailure(t *testing.T) {
	cause := apierrors.NewNetworkErrorWithEndpoint("chat request", "http://10.9.8.7:8000/chat", errors.New("connection refused"))
	c := New(&api.MockClient{Base: "http://10.9.8.7:8000", ChatErr: cause})

	msg, err := c.Submit(context.Background(), "hi")
	if err != nil {
		t.Fatalf("failures must not surface as errors, got %v", err)
	}

	if !strings.HasPrefix(msg.Content, "Error: Could not connect to the backend at http://10.9.8.7:8000/chat.") {
		t.Errorf("Content = %q", msg.Content)
	}
	if !strings.Contains(msg.Content, "connection refused") {
		t.Errorf("Content should include the cause: %q", msg.Content)
	}
	if msg.TableData != nil || msg.GeoData != nil || msg.SQLQuery != "" {
		t.Error("error turn must carry no result data")
	}

	snap := c.Snapshot()
	if len(snap.Messages) != 2 || snap.Busy {
		t.Errorf("unexpected state after failure: len=%d busy=%v", len(snap.Messages), snap.Busy)
	}
}

func TestExchange_Err(t *testing.T) {
	cause := errors.New("connection refused")
	c := New(&api.MockClient{ChatErr: cause})

	ex, err := c.Begin("hi")
	if err != nil {
		t.Fatal(err)
	}
	ex.Run(context.Background())
	if !errors.Is(ex.Err(), cause) {
		t.Errorf("Err() = %v, want %v", ex.Err(), cause)
	}

	ok := New(&api.MockClient{ChatReply: &models.ChatReply{Output: "fine"}})
	ex, _ = ok.Begin("hi")
	ex.Run(context.Background())
	if ex.Err() != nil {
		t.Errorf("Err() = %v on success", ex.Err())
	}
}

func TestController_EmptyPrompt(t *testing.T) {
	mock := &api.MockClient{}
	c := New(mock)

	for _, p := range []string{"", "   ", "\n\t"} {
		if _, err := c.Submit(context.Background(), p); !errors.Is(err, apierrors.ErrEmptyPrompt) {
			t.Errorf("Submit(%q) err = %v, want ErrEmptyPrompt", p, err)
		}
	}

	snap := c.Snapshot()
	if len(snap.Messages) != 0 || snap.Layout != models.LayoutInitial || mock.CallCount() != 0 {
		t.Errorf("rejected prompts changed state: %+v calls=%d", snap, mock.CallCount())
	}
}

func TestController_BusyRejectsSubmit(t *testing.T) {
	gate := make(chan struct{})
	mock := &api.MockClient{ChatReply: &models.ChatReply{Output: "done"}, Gate: gate}
	c := New(mock)

	ex, err := c.Begin("first")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	done := make(chan models.Message, 1)
	go func() { done <- ex.Run(context.Background()) }()

	if !c.Busy() {
		t.Fatal("controller should be busy after Begin")
	}

	before := c.Snapshot()
	if _, err := c.Submit(context.Background(), "second"); !errors.Is(err, apierrors.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	after := c.Snapshot()
	if len(after.Messages) != len(before.Messages) || !after.Busy {
		t.Errorf("busy rejection changed state: before=%d after=%d", len(before.Messages), len(after.Messages))
	}

	close(gate)
	select {
	case msg := <-done:
		if msg.Content != "done" {
			t.Errorf("Content = %q", msg.Content)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("exchange did not complete")
	}

	final := c.Snapshot()
	if len(final.Messages) != 2 || final.Busy {
		t.Errorf("final state len=%d busy=%v", len(final.Messages), final.Busy)
	}
	if mock.CallCount() != 1 {
		t.Errorf("backend called %d times, want 1", mock.CallCount())
	}
}

func TestController_LayoutNeverReverts(t *testing.T) {
	c := New(&api.MockClient{ChatErr: errors.New("down")})

	for i := 0; i < 3; i++ {
		if _, err := c.Submit(context.Background(), "again"); err != nil {
			t.Fatal(err)
		}
		if c.Layout() != models.LayoutDashboard {
			t.Fatalf("layout reverted after submit %d", i)
		}
	}
	if got := len(c.Snapshot().Messages); got != 6 {
		t.Errorf("log length = %d, want 6", got)
	}
}

func TestExchange_RunOnce(t *testing.T) {
	mock := &api.MockClient{ChatReply: &models.ChatReply{Output: "x"}}
	c := New(mock)

	ex, err := c.Begin("p")
	if err != nil {
		t.Fatal(err)
	}
	if ex.Prompt() != "p" {
		t.Errorf("Prompt() = %q", ex.Prompt())
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex.Run(context.Background())
		}()
	}
	wg.Wait()

	if mock.CallCount() != 1 {
		t.Errorf("backend called %d times, want 1", mock.CallCount())
	}
	if got := len(c.Snapshot().Messages); got != 2 {
		t.Errorf("log length = %d, want 2", got)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := New(&api.MockClient{ChatReply: &models.ChatReply{Output: "x"}})
	if _, err := c.Submit(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}

	snap := c.Snapshot()
	snap.Messages[0].Content = "mutated"

	if c.Snapshot().Messages[0].Content != "p" {
		t.Error("Snapshot must not expose the log")
	}
}

func TestSnapshot_Display(t *testing.T) {
	gate := make(chan struct{})
	c := New(&api.MockClient{ChatReply: &models.ChatReply{Output: "x"}, Gate: gate})

	ex, err := c.Begin("p")
	if err != nil {
		t.Fatal(err)
	}

	busy := c.Snapshot()
	display := busy.Display()
	if len(display) != 2 || !display[1].IsPending() {
		t.Errorf("busy display should end with a pending bubble: %+v", display)
	}
	if len(busy.Messages) != 1 {
		t.Error("pending bubble must not enter the log")
	}

	close(gate)
	ex.Run(context.Background())

	idle := c.Snapshot()
	if got := idle.Display(); len(got) != 2 || got[1].IsPending() {
		t.Errorf("idle display = %+v", got)
	}
	if reply, ok := idle.LastReply(); !ok || reply.Content != "x" {
		t.Errorf("LastReply() = %+v, %v", reply, ok)
	}
}

func TestSnapshot_LatestVisualization(t *testing.T) {
	replies := []*models.ChatReply{
		{Output: "first", TableData: []models.Record{{{Key: "a", Value: 1.0}}}},
		{Output: "plain"},
		{Output: "second", GeoData: []models.Record{}},
		{Output: "plain again"},
	}

	c := New(&api.MockClient{})
	for _, r := range replies {
		c.client = &api.MockClient{ChatReply: r}
		if _, err := c.Submit(context.Background(), "q"); err != nil {
			t.Fatal(err)
		}
	}

	snap := c.Snapshot()
	got, ok := snap.LatestVisualization()
	if !ok || got.Content != "second" {
		t.Errorf("LatestVisualization() = %q, %v; want second", got.Content, ok)
	}

	again, _ := snap.LatestVisualization()
	if again.Content != got.Content {
		t.Error("LatestVisualization must be stable on an unchanged log")
	}
}
