package infra

import "github.com/slack-go/slack"

type SlackAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	GetConversations(params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	JoinConversation(channelID string) (*slack.Channel, string, []string, error)
	GetConversationHistory(params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
}
