package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pyama86/slack-concierge/domain/model"
	"github.com/slack-go/slack"
)

const (
	channelPageSize   = 200
	historyFetchLimit = 1000
)

// runArchive はスケジューラから呼ばれる1回分のアーカイブ実行。
// チャンネル単位の失敗は飲み込んで続行し、エクスポートの書き込み失敗は全体の失敗になる
func (h *Handler) runArchive() error {
	if err := h.executeArchive(); err != nil {
		h.sink.Log("ERROR: Failed to execute archive. "+err.Error(), model.LevelError)
		h.postMessage(h.cfg.ArchiveChannelID, "アーカイブ処理中にエラーが発生しました: "+err.Error())
		return err
	}
	return nil
}

func (h *Handler) executeArchive() error {
	// 副作用を起こす前に設定を検証する
	if strings.TrimSpace(h.cfg.ArchiveExportDir) == "" {
		return fmt.Errorf("ARCHIVE_EXPORT_DIR is not configured")
	}
	if h.cfg.ArchiveLookBackHours <= 0 {
		return fmt.Errorf("ARCHIVE_LOOKBACK_HOURS must be a positive number, got %d", h.cfg.ArchiveLookBackHours)
	}

	now := timeNow()
	oldest := now.Add(-time.Duration(h.cfg.ArchiveLookBackHours) * time.Hour)

	h.postMessage(h.cfg.ArchiveChannelID, fmt.Sprintf("🗄 アーカイブ処理を開始します(過去%d時間)", h.cfg.ArchiveLookBackHours))

	channels, err := h.listAllChannels()
	if err != nil {
		return err
	}

	archive := &model.Archive{
		ArchiveDate:   now,
		LookBackHours: h.cfg.ArchiveLookBackHours,
		TotalChannels: len(channels),
	}
	for _, ch := range channels {
		if err := h.limiter.Wait(context.Background()); err != nil {
			return err
		}
		h.archiveChannel(archive, ch, oldest)
	}

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize archive: %w", err)
	}
	name := fmt.Sprintf("slack-archive-%s.json", now.Format("20060102-150405"))
	location, err := h.storage.Save(name, data)
	if err != nil {
		// ここまでに集めたデータはこの失敗で全て失われる
		return fmt.Errorf("failed to save archive: %w", err)
	}

	summary := summaryText(archive, location)
	h.postMessage(h.cfg.ArchiveChannelID, summary)
	h.postDigest(summary)
	h.sink.Log(fmt.Sprintf("Archive completed: %d/%d channels, %d messages", archive.ProcessedChannels, archive.TotalChannels, archive.TotalMessages), model.LevelInfo)
	return nil
}

// カーソルが尽きるまで全チャンネルを列挙する。ページ間はレートリミッタで間隔を空ける
func (h *Handler) listAllChannels() ([]slack.Channel, error) {
	var all []slack.Channel
	cursor := ""
	for {
		channels, next, err := h.client.GetConversations(&slack.GetConversationsParameters{
			Types:  []string{"public_channel", "private_channel"},
			Limit:  channelPageSize,
			Cursor: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("GetConversations failed: %w", err)
		}
		all = append(all, channels...)
		if next == "" {
			break
		}
		cursor = next
		if err := h.limiter.Wait(context.Background()); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// 1チャンネル分の処理。どんな失敗もこの境界で止まり、実行全体は続く
func (h *Handler) archiveChannel(archive *model.Archive, ch slack.Channel, oldest time.Time) {
	reason, proceed := h.classifyChannel(ch)
	if !proceed {
		archive.SkippedChannels = append(archive.SkippedChannels, model.SkippedChannel{
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			Reason:      reason,
		})
		return
	}

	record, err := h.fetchChannelHistory(ch, oldest)
	if err != nil {
		h.sink.Log(fmt.Sprintf("ERROR: Failed to archive #%s. %s", ch.Name, err.Error()), model.LevelError)
		archive.SkippedChannels = append(archive.SkippedChannels, model.SkippedChannel{
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			Reason:      model.SkipError,
		})
		return
	}

	archive.ProcessedChannels++
	if record == nil {
		h.sink.Log(fmt.Sprintf("No messages in #%s, nothing to archive", ch.Name), model.LevelInfo)
		return
	}
	archive.Channels = append(archive.Channels, *record)
	archive.TotalMessages += record.MessageCount
}

// 分類の順序は固定: archivedの判定がメンバー判定より先
func (h *Handler) classifyChannel(ch slack.Channel) (model.SkipReason, bool) {
	if ch.IsArchived {
		return model.SkipArchived, false
	}
	if !ch.IsMember {
		if ch.IsPrivate {
			// プライベートチャンネルには参加する手段がない
			return model.SkipPrivateNotMember, false
		}
		if _, _, _, err := h.client.JoinConversation(ch.ID); err != nil {
			h.sink.Log(fmt.Sprintf("WARNING: Failed to join #%s. %s", ch.Name, err.Error()), model.LevelWarning)
			return model.SkipJoinFailed, false
		}
		// join直後の取得は失敗しやすいので一拍置く
		_ = h.limiter.Wait(context.Background())
	}
	return "", true
}

func (h *Handler) fetchChannelHistory(ch slack.Channel, oldest time.Time) (*model.ArchiveRecord, error) {
	resp, err := h.client.GetConversationHistory(&slack.GetConversationHistoryParameters{
		ChannelID: ch.ID,
		Oldest:    strconv.FormatInt(oldest.Unix(), 10),
		// 1000件で打ち切り。それより古い分は拾わない
		Limit: historyFetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("GetConversationHistory failed: %w", err)
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}
	return &model.ArchiveRecord{
		ChannelID:    ch.ID,
		ChannelName:  ch.Name,
		IsPrivate:    ch.IsPrivate,
		MessageCount: len(resp.Messages),
		Messages:     resp.Messages,
	}, nil
}

func summaryText(a *model.Archive, location string) string {
	breakdown := a.SkipBreakdown()
	var b strings.Builder
	b.WriteString("✅ アーカイブ処理が完了しました\n")
	fmt.Fprintf(&b, "対象チャンネル: %d\n", a.TotalChannels)
	fmt.Fprintf(&b, "アーカイブ済み: %d (メッセージ%d件)\n", a.ProcessedChannels, a.TotalMessages)
	fmt.Fprintf(&b, "スキップ: %d (archived=%d, private_not_member=%d, join_failed=%d, error=%d)\n",
		len(a.SkippedChannels),
		breakdown[model.SkipArchived],
		breakdown[model.SkipPrivateNotMember],
		breakdown[model.SkipJoinFailed],
		breakdown[model.SkipError],
	)
	fmt.Fprintf(&b, "エクスポート: %s", location)
	return b.String()
}

// OpenAIの設定がある場合だけ、サマリのダイジェストを追加で投稿する
func (h *Handler) postDigest(summary string) {
	if h.digest == nil {
		return
	}
	text, err := h.digest.GenerateArchiveDigest(summary)
	if err != nil {
		h.sink.Log("WARNING: Failed to generate archive digest. "+err.Error(), model.LevelWarning)
		return
	}
	h.postMessage(h.cfg.ArchiveChannelID, text)
}
