package notify

import (
	"go.uber.org/zap"

	"travel-nav-service/internal/ports"
)

// LogNotifier is the default toast sink: human-readable status strings go
// to the structured log. The UI replaces this with its own presentation.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Notify(message string) {
	n.Log.Info("notice", zap.String("message", message))
}

var _ ports.Notifier = (*LogNotifier)(nil)
