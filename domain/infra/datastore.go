package infra

import (
	"time"

	"github.com/pyama86/slack-concierge/domain/model"
)

// ログストアに残す最大行数。超えた分は古い順に削除する
const LogRetentionRows = 1000

type Datastore interface {
	// ログを1行追記する
	AppendLog(*model.LogEntry) error
	// 最新keep件を残して古いログを削除する
	TrimLogs(keep int) error
	// 新しい順にログを取得する
	RecentLogs(limit int) ([]model.LogEntry, error)
}

func timeNow() time.Time {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
