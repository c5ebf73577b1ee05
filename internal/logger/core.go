package logger

import (
	"go.uber.org/zap/zapcore"
)

// SinkCore wraps an existing core (like the console logger) and tees every
// entry into the Mongo sink.
type SinkCore struct {
	zapcore.Core
	sink *MongoLogSink
}

func NewSinkCore(baseCore zapcore.Core, sink *MongoLogSink) zapcore.Core {
	return &SinkCore{
		Core: baseCore,
		sink: sink,
	}
}

// Write is called for every log entry
func (c *SinkCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var userID, campaignID string

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
		if f.Key == "userId" {
			userID = f.String
		}
		if f.Key == "campaignId" {
			campaignID = f.String
		}
	}

	c.sink.AddLog(LogEntry{
		Level:      entry.Level,
		Message:    entry.Message,
		UserID:     userID,
		CampaignID: campaignID,
		Caller:     entry.Caller.Function,
	})

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *SinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
