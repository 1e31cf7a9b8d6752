package model

// CommandPayload はスラッシュコマンドのリクエストボディを正規化したもの。
// JSONボディとform-encodedボディのどちらか一方だけが元になる。
type CommandPayload struct {
	Type        string `json:"type,omitempty"`
	Challenge   string `json:"challenge,omitempty"`
	Token       string `json:"token,omitempty"`
	Command     string `json:"command,omitempty"`
	Text        string `json:"text,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	TriggerID   string `json:"trigger_id,omitempty"`
}
