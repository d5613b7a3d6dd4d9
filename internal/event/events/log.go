package events

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// LogMessage carries a formatted log entry to on-screen consumers.
type LogMessage struct {
	// Level is the entry severity.
	Level zapcore.Level

	// Text is the encoded message, without a trailing newline.
	Text string

	// Time is when the entry was logged.
	Time time.Time
}
