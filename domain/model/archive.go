package model

import (
	"time"

	"github.com/slack-go/slack"
)

// SkipReason はアーカイブ対象外となったチャンネルの分類。1チャンネルにつき1つだけ付く
type SkipReason string

const (
	SkipArchived         SkipReason = "archived"
	SkipPrivateNotMember SkipReason = "private_not_member"
	SkipJoinFailed       SkipReason = "join_failed"
	SkipError            SkipReason = "error"
)

// ArchiveRecord は1チャンネル分のエクスポート結果
type ArchiveRecord struct {
	ChannelID    string          `json:"channel_id"`
	ChannelName  string          `json:"channel_name"`
	IsPrivate    bool            `json:"is_private"`
	MessageCount int             `json:"message_count"`
	Messages     []slack.Message `json:"messages"`
}

type SkippedChannel struct {
	ChannelID   string     `json:"channel_id"`
	ChannelName string     `json:"channel_name"`
	Reason      SkipReason `json:"reason"`
}

// Archive は1回の実行で書き出される集約ドキュメント。
// チャンネルごとの分割ファイルは採用しない
type Archive struct {
	ArchiveDate       time.Time        `json:"archive_date"`
	LookBackHours     int              `json:"look_back_hours"`
	TotalChannels     int              `json:"total_channels"`
	ProcessedChannels int              `json:"processed_channels"`
	TotalMessages     int              `json:"total_messages"`
	SkippedChannels   []SkippedChannel `json:"skipped_channels"`
	Channels          []ArchiveRecord  `json:"channels"`
}

// SkipBreakdown は理由ごとのスキップ数を返す
func (a *Archive) SkipBreakdown() map[SkipReason]int {
	breakdown := map[SkipReason]int{}
	for _, s := range a.SkippedChannels {
		breakdown[s.Reason]++
	}
	return breakdown
}
