package model

import "time"

// MailMessage はメール1通分の表示に必要な項目だけを持つ
type MailMessage struct {
	From    string
	To      string
	Subject string
	Date    time.Time
	Body    string
}

type MailThread struct {
	ID       string
	Messages []MailMessage
}
