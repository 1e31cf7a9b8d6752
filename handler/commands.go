package handler

import (
	"fmt"
	"time"

	"github.com/pyama86/slack-concierge/domain/model"
)

func (h *Handler) handleHelloCommand(payload *model.CommandPayload) {
	h.postMessage(payload.ChannelID, fmt.Sprintf("Hello, <@%s>!", payload.UserID))
}

func (h *Handler) handleLogTestCommand(payload *model.CommandPayload) {
	userName := payload.UserName
	if userName == "" {
		userName = "Unknown User"
	}
	channelName := payload.ChannelName
	if channelName == "" {
		channelName = "Unknown Channel"
	}
	timestamp := timeNow().Format(time.RFC3339)

	h.sink.Log(fmt.Sprintf("Log test command executed by %s in #%s at %s", userName, channelName, timestamp), model.LevelDebug)

	h.postMessage(
		payload.ChannelID,
		fmt.Sprintf("✅ ログテスト成功！ログストアにデバッグログを出力しました。\n実行者: %s\n実行時刻: %s", userName, timestamp),
	)
}

func (h *Handler) handleMailCommand(payload *model.CommandPayload) {
	channelID := payload.ChannelID
	if channelID == "" {
		channelID = h.cfg.MailChannelID
	}
	if err := h.runMailRelay(channelID); err != nil {
		h.sink.Log("ERROR: Failed to process mail command. "+err.Error(), model.LevelError)
		h.postMessage(channelID, "メールの取得中にエラーが発生しました。")
	}
}

// アーカイブは1回の実行に数分かかるので、ackだけ返して本処理は遅延実行する
func (h *Handler) handleArchiveCommand(payload *model.CommandPayload) {
	h.postMessage(payload.ChannelID, "アーカイブ処理を受け付けました。処理が完了次第、結果を通知します。")
	h.sched.Schedule("archive", h.cfg.ArchiveDelay, h.runArchive)
	h.sink.Log("Archive job scheduled", model.LevelInfo)
}
