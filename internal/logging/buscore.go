package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// busCore posts each entry to a bus inbox as events.LogMessage.
type busCore struct {
	zapcore.LevelEnabler
	enc   zapcore.Encoder
	inbox *event.Inbox
}

// NewBusCore returns a core that formats entries at or above level and
// posts them to inbox. Entries are dropped when the inbox is full.
//
// The text holds the logger name, message and fields; level and time
// travel in the event itself.
func NewBusCore(inbox *event.Inbox, level zapcore.LevelEnabler) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
	return &busCore{LevelEnabler: level, enc: enc, inbox: inbox}
}

func (c *busCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &busCore{LevelEnabler: c.LevelEnabler, enc: c.enc.Clone(), inbox: c.inbox}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *busCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *busCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	text := strings.TrimRight(buf.String(), "\n")
	buf.Free()

	_ = event.Post(c.inbox, events.LogMessage{Level: ent.Level, Text: text, Time: ent.Time})
	return nil
}

func (c *busCore) Sync() error { return nil }
