package model

import "time"

const (
	LevelInfo    = "INFO"
	LevelError   = "ERROR"
	LevelDebug   = "DEBUG"
	LevelWarning = "WARNING"
)

// ログ1行。外部のログストアに Timestamp | Level | Message で追記される
type LogEntry struct {
	ID        uint      `gorm:"primary_key"`
	Timestamp time.Time `gorm:"index"`
	Level     string    `gorm:"type:varchar(10)"`
	Message   string    `gorm:"type:text"`
}
