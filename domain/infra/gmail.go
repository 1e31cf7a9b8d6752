package infra

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pyama86/slack-concierge/domain/model"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type MailAPI interface {
	// after以降に届いたスレッドを最大max件検索する
	SearchThreads(after time.Time, max int64) ([]model.MailThread, error)
}

type Gmail struct {
	svc *gmail.Service
}

// NewGmail はApplication Default Credentialsで認証したGmailクライアントを作る
func NewGmail(ctx context.Context) (*Gmail, error) {
	svc, err := gmail.NewService(ctx, option.WithScopes(gmail.GmailReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gmail client: %w", err)
	}
	return &Gmail{svc: svc}, nil
}

func (g *Gmail) SearchThreads(after time.Time, max int64) ([]model.MailThread, error) {
	query := fmt.Sprintf("after:%d", after.Unix())
	list, err := g.svc.Users.Threads.List("me").Q(query).MaxResults(max).Do()
	if err != nil {
		return nil, fmt.Errorf("threads.list failed: %w", err)
	}

	var threads []model.MailThread
	for _, t := range list.Threads {
		full, err := g.svc.Users.Threads.Get("me", t.Id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("threads.get failed for %s: %w", t.Id, err)
		}
		thread := model.MailThread{ID: t.Id}
		for _, m := range full.Messages {
			thread.Messages = append(thread.Messages, convertMessage(m))
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func convertMessage(m *gmail.Message) model.MailMessage {
	msg := model.MailMessage{
		Date: time.UnixMilli(m.InternalDate),
	}
	if m.Payload == nil {
		return msg
	}
	for _, h := range m.Payload.Headers {
		switch h.Name {
		case "From":
			msg.From = h.Value
		case "To":
			msg.To = h.Value
		case "Subject":
			msg.Subject = h.Value
		}
	}
	msg.Body = plainTextBody(m.Payload)
	return msg
}

// plainTextBody はマルチパートを深さ優先で辿って最初のtext/plainを返す
func plainTextBody(part *gmail.MessagePart) string {
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		if decoded, err := decodeBody(part.Body.Data); err == nil {
			return decoded
		}
	}
	for _, p := range part.Parts {
		if body := plainTextBody(p); body != "" {
			return body
		}
	}
	return ""
}

func decodeBody(data string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		// パディング付きで送られてくることもある
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(decoded), nil
}
