package notify

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/floatchat/internal/models"
)

func stubNotifier(t *testing.T, err error) *[]string {
	t.Helper()
	var sent []string
	orig := notifier
	notifier = func(title, message string) error {
		sent = append(sent, title+": "+message)
		return err
	}
	t.Cleanup(func() { notifier = orig })
	return &sent
}

func TestReplyReady(t *testing.T) {
	sent := stubNotifier(t, nil)

	msg := models.NewAssistantMessage(&models.ChatReply{Output: "3 profiles found", TableData: []models.Record{}})
	if err := ReplyReady(msg); err != nil {
		t.Fatalf("ReplyReady failed: %v", err)
	}
	if len(*sent) != 1 || (*sent)[0] != "floatchat: 3 profiles found [table]" {
		t.Errorf("sent = %v", *sent)
	}
}

func TestSend_Error(t *testing.T) {
	stubNotifier(t, errors.New("no dbus"))

	if err := Send("t", "m"); err == nil {
		t.Error("expected notifier error to propagate")
	}
}

func TestSummary(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Summary(models.Message{Role: models.RoleAssistant, Content: long, GeoData: []models.Record{}})

	if !strings.HasSuffix(got, "… [map]") {
		t.Errorf("Summary() = %q", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, " [map]"))); n != maxBody {
		t.Errorf("body length = %d, want %d", n, maxBody)
	}
}
