package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pyama86/slack-concierge/domain/infra"
	"github.com/pyama86/slack-concierge/domain/model"
	"github.com/slack-go/slack"
)

const mailSearchLimit = 100

// Gmailクライアントは初回利用時に作る。テストではモックを差し込む
func (h *Handler) mailAPI() (infra.MailAPI, error) {
	if h.mail != nil {
		return h.mail, nil
	}
	gm, err := infra.NewGmail(context.Background())
	if err != nil {
		return nil, fmt.Errorf("mail client unavailable: %w", err)
	}
	h.mail = gm
	return h.mail, nil
}

// runMailRelay はメール1通を1投稿としてSlackに転送する。
// アーカイブ処理と違い、途中で失敗したら部分的なサマリは出さずそのまま中断する
func (h *Handler) runMailRelay(channelID string) error {
	mail, err := h.mailAPI()
	if err != nil {
		return err
	}

	lookBack := h.cfg.MailLookBackHours
	start := timeNow().Add(-time.Duration(lookBack) * time.Hour)

	threads, err := mail.SearchThreads(start, mailSearchLimit)
	if err != nil {
		return fmt.Errorf("mail search failed: %w", err)
	}

	if len(threads) == 0 {
		h.postMessage(channelID, fmt.Sprintf("📭 過去%d時間に新しいメールはありません。", lookBack))
		return nil
	}

	h.postMessage(channelID, fmt.Sprintf("📧 %d件のメールスレッドが見つかりました。", len(threads)))

	total := 0
	for i, thread := range threads {
		for j, msg := range thread.Messages {
			if err := h.limiter.Wait(context.Background()); err != nil {
				return err
			}
			block := formatMailMessage(i+1, j+1, msg)
			if _, _, err := h.client.PostMessage(channelID, slack.MsgOptionText(block, false)); err != nil {
				return fmt.Errorf("failed to post mail message %d-%d: %w", i+1, j+1, err)
			}
			total++
		}
	}

	h.postMessage(channelID, fmt.Sprintf("✅ メール投稿が完了しました(%d件)", total))
	return nil
}

func formatMailMessage(threadIdx, msgIdx int, msg model.MailMessage) string {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.UTC
	}
	var b strings.Builder
	b.WriteString("----------------------------------------\n")
	fmt.Fprintf(&b, "📩 %d-%d\n", threadIdx, msgIdx)
	fmt.Fprintf(&b, "From: %s\n", msg.From)
	fmt.Fprintf(&b, "To: %s\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\n\n", msg.Date.In(loc).Format("2006-01-02 15:04:05"))
	b.WriteString(msg.Body)
	return b.String()
}
