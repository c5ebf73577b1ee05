package logger

import (
	"context"
	"fmt"
	"time"

	"mailflow/internal/config"
	"mailflow/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to the sink worker
type LogEntry struct {
	Level      zapcore.Level
	Message    string
	UserID     string
	CampaignID string
	Caller     string
}

// LogRecord is the persisted shape of a log line
type LogRecord struct {
	AppId        string    `bson:"app_id"`
	Level        string    `bson:"level"`
	Message      string    `bson:"message"`
	UserID       string    `bson:"user_id,omitempty"`
	CampaignID   string    `bson:"campaign_id,omitempty"`
	Caller       string    `bson:"caller,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}

// MongoLogSink handles the async writing
type MongoLogSink struct {
	db      *mongo.Database
	logChan chan LogEntry
	appId   string
}

func NewMongoLogSink(db *database.MongodbDB, cfg *config.Config) *MongoLogSink {
	sink := &MongoLogSink{
		db:      db.DB,
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:   cfg.AppId,
	}

	// Start the background worker immediately
	go sink.processLogs()

	return sink
}

// AddLog is called by the Zap core hook
func (s *MongoLogSink) AddLog(entry LogEntry) {
	select {
	case s.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("Log channel full! Dropping log:", entry.Message)
	}
}

func (s *MongoLogSink) processLogs() {
	for entry := range s.logChan {
		record := LogRecord{
			AppId:        s.appId,
			Level:        entry.Level.String(),
			Message:      entry.Message,
			UserID:       entry.UserID,
			CampaignID:   entry.CampaignID,
			Caller:       entry.Caller,
			CreatedOnUtc: time.Now().UTC(),
		}

		// Insert errors are ignored to keep the app running
		s.db.Collection("logs").InsertOne(context.Background(), record)
	}
}
