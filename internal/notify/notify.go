// Package notify sends desktop notifications when a backend reply arrives.
// It uses the beeep library, which covers macOS, Linux and Windows.
package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/models"
)

// AppName is the notification title
const AppName = "floatchat"

// maxBody bounds the notification text
const maxBody = 120

// notifier is swapped in tests
var notifier = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	logging.Logger().Debug("sending notification", "title", title)
	err := notifier(title, message)
	if err != nil {
		logging.Logger().Info("notification failed", "err", err)
	}
	return err
}

// ReplyReady announces an assistant reply
func ReplyReady(msg models.Message) error {
	return Send(AppName, Summary(msg))
}

// Summary is the one-line text shown for a reply
func Summary(msg models.Message) string {
	body := []rune(msg.Content)
	if len(body) > maxBody {
		body = append(body[:maxBody-1], '…')
	}

	suffix := ""
	switch {
	case msg.TableData != nil && msg.GeoData != nil:
		suffix = " [table + map]"
	case msg.TableData != nil:
		suffix = " [table]"
	case msg.GeoData != nil:
		suffix = " [map]"
	}
	return string(body) + suffix
}
