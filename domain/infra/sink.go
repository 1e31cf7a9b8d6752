package infra

import (
	"log/slog"

	"github.com/pyama86/slack-concierge/domain/model"
)

// Sink は外部ログストアへのベストエフォートなロガー。
// Log は呼び出し側に失敗を返さない。ストア未設定・書き込み失敗時はslogに落とす
type Sink struct {
	ds Datastore
}

func NewSink(ds Datastore) *Sink {
	return &Sink{ds: ds}
}

func (s *Sink) Log(message, level string) {
	if s == nil || s.ds == nil {
		localLog(level, message)
		return
	}
	entry := &model.LogEntry{
		Timestamp: timeNow(),
		Level:     level,
		Message:   message,
	}
	if err := s.ds.AppendLog(entry); err != nil {
		slog.Error("log store append failed", slog.Any("err", err), slog.String("level", level), slog.String("message", message))
		return
	}
	if err := s.ds.TrimLogs(LogRetentionRows); err != nil {
		slog.Error("log store trim failed", slog.Any("err", err))
	}
}

func localLog(level, message string) {
	switch level {
	case model.LevelError:
		slog.Error(message)
	case model.LevelDebug:
		slog.Debug(message)
	case model.LevelWarning:
		slog.Warn(message)
	default:
		slog.Info(message)
	}
}
