package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pyama86/slack-concierge/domain/model"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func testChannel(id, name string, isPrivate, isArchived, isMember bool) slack.Channel {
	var ch slack.Channel
	ch.ID = id
	ch.Name = name
	ch.IsPrivate = isPrivate
	ch.IsArchived = isArchived
	ch.IsMember = isMember
	return ch
}

func historyResponse(texts ...string) *slack.GetConversationHistoryResponse {
	resp := &slack.GetConversationHistoryResponse{}
	for i, text := range texts {
		msg := slack.Message{}
		msg.Text = text
		msg.Timestamp = fmt.Sprintf("170000000%d.000000", i)
		resp.Messages = append(resp.Messages, msg)
	}
	return resp
}

func TestHandler_classifyChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := NewMockSlackAPI(ctrl)

	h, err := NewHandler(testConfig(t))
	assert.NoError(t, err)
	h.client = mockClient

	// 同じチャンネルを2回分類しても結果は変わらない
	mockClient.EXPECT().JoinConversation("C_JOIN_NG").Return(nil, "", nil, errors.New("cant_join")).Times(2)
	mockClient.EXPECT().JoinConversation("C_JOIN_OK").Return(nil, "", nil, nil).Times(2)

	tests := []struct {
		name    string
		ch      slack.Channel
		reason  model.SkipReason
		proceed bool
	}{
		{
			// archivedの判定は非メンバー判定より優先される
			name:    "archived private channel",
			ch:      testChannel("C_ARCHIVED", "closed", true, true, false),
			reason:  model.SkipArchived,
			proceed: false,
		},
		{
			name:    "private channel without membership",
			ch:      testChannel("C_PRIVATE", "secret", true, false, false),
			reason:  model.SkipPrivateNotMember,
			proceed: false,
		},
		{
			name:    "public channel join failure",
			ch:      testChannel("C_JOIN_NG", "restricted", false, false, false),
			reason:  model.SkipJoinFailed,
			proceed: false,
		},
		{
			name:    "public channel joined on demand",
			ch:      testChannel("C_JOIN_OK", "open", false, false, false),
			reason:  "",
			proceed: true,
		},
		{
			name:    "already a member",
			ch:      testChannel("C_MEMBER", "home", false, false, true),
			reason:  "",
			proceed: true,
		},
	}

	for run := 0; run < 2; run++ {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				reason, proceed := h.classifyChannel(tt.ch)
				assert.Equal(t, tt.reason, reason)
				assert.Equal(t, tt.proceed, proceed)
			})
		}
	}
}

func TestHandler_runArchive_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := NewMockSlackAPI(ctrl)

	cfg := testConfig(t)
	h, err := NewHandler(cfg)
	assert.NoError(t, err)
	h.client = mockClient

	channels := []slack.Channel{
		testChannel("C_A", "alpha", false, false, true),
		testChannel("C_B", "bravo", false, false, true),
		testChannel("C_C", "charlie", true, false, true),
	}

	mockClient.EXPECT().GetConversations(gomock.Any()).Return(channels, "", nil)
	mockClient.EXPECT().PostMessage(cfg.ArchiveChannelID, gomock.Any()).Return("ok", "timestamp", nil).AnyTimes()
	mockClient.EXPECT().GetConversationHistory(gomock.Any()).DoAndReturn(
		func(params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
			switch params.ChannelID {
			case "C_A":
				return historyResponse("hello", "world"), nil
			case "C_B":
				return nil, errors.New("internal_error")
			case "C_C":
				return historyResponse("yo"), nil
			}
			return nil, fmt.Errorf("unexpected channel %s", params.ChannelID)
		}).Times(3)

	// 1チャンネルの失敗は全体を止めない
	err = h.runArchive()
	assert.NoError(t, err)

	files, err := os.ReadDir(cfg.ArchiveExportDir)
	assert.NoError(t, err)
	assert.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(cfg.ArchiveExportDir, files[0].Name()))
	assert.NoError(t, err)

	var archive model.Archive
	assert.NoError(t, json.Unmarshal(data, &archive))
	assert.Equal(t, 3, archive.TotalChannels)
	assert.Equal(t, 2, archive.ProcessedChannels)
	assert.Equal(t, 3, archive.TotalMessages)
	assert.Len(t, archive.Channels, 2)
	assert.Equal(t, "alpha", archive.Channels[0].ChannelName)
	assert.Equal(t, "charlie", archive.Channels[1].ChannelName)
	assert.True(t, archive.Channels[1].IsPrivate)
	assert.Len(t, archive.SkippedChannels, 1)
	assert.Equal(t, "C_B", archive.SkippedChannels[0].ChannelID)
	assert.Equal(t, model.SkipError, archive.SkippedChannels[0].Reason)
}

func TestHandler_runArchive_Pagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := NewMockSlackAPI(ctrl)

	cfg := testConfig(t)
	h, err := NewHandler(cfg)
	assert.NoError(t, err)
	h.client = mockClient

	page1 := []slack.Channel{
		testChannel("C_1", "one", false, false, true),
		testChannel("C_2", "two", false, false, true),
	}
	page2 := []slack.Channel{
		testChannel("C_3", "three", false, false, true),
	}

	gomock.InOrder(
		mockClient.EXPECT().GetConversations(gomock.Any()).DoAndReturn(
			func(params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
				assert.Equal(t, "", params.Cursor)
				return page1, "cursor-1", nil
			}),
		mockClient.EXPECT().GetConversations(gomock.Any()).DoAndReturn(
			func(params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
				assert.Equal(t, "cursor-1", params.Cursor)
				return page2, "", nil
			}),
	)
	mockClient.EXPECT().PostMessage(cfg.ArchiveChannelID, gomock.Any()).Return("ok", "timestamp", nil).AnyTimes()
	// メッセージが1件も無いチャンネルも処理済みに数える
	mockClient.EXPECT().GetConversationHistory(gomock.Any()).Return(&slack.GetConversationHistoryResponse{}, nil).Times(3)

	err = h.runArchive()
	assert.NoError(t, err)

	files, err := os.ReadDir(cfg.ArchiveExportDir)
	assert.NoError(t, err)
	assert.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(cfg.ArchiveExportDir, files[0].Name()))
	assert.NoError(t, err)

	var archive model.Archive
	assert.NoError(t, json.Unmarshal(data, &archive))
	assert.Equal(t, 3, archive.TotalChannels)
	assert.Equal(t, 3, archive.ProcessedChannels)
	assert.Equal(t, 0, archive.TotalMessages)
	assert.Empty(t, archive.Channels)
	assert.Empty(t, archive.SkippedChannels)
}

func TestHandler_runArchive_MissingExportDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := NewMockSlackAPI(ctrl)

	cfg := testConfig(t)
	cfg.ArchiveExportDir = ""
	h, err := NewHandler(cfg)
	assert.NoError(t, err)
	h.client = mockClient

	// 設定不備はSlack APIを呼ぶ前に検出される。失敗通知の投稿だけが起きる
	mockClient.EXPECT().PostMessage(cfg.ArchiveChannelID, gomock.Any()).Return("ok", "timestamp", nil).Times(1)

	err = h.runArchive()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ARCHIVE_EXPORT_DIR")

	entries, err := h.ds.RecentLogs(5)
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.Equal(t, model.LevelError, entries[0].Level)
	assert.Contains(t, entries[0].Message, "Failed to execute archive")
}

func TestHandler_handleArchiveCommand_Defers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClient := NewMockSlackAPI(ctrl)

	cfg := testConfig(t)
	cfg.ArchiveExportDir = ""
	cfg.ArchiveDelay = 100 * time.Millisecond
	h, err := NewHandler(cfg)
	assert.NoError(t, err)
	h.client = mockClient

	// 受付応答が先、本処理は遅延実行される
	mockClient.EXPECT().PostMessage(gomock.Any(), gomock.Any()).Return("ok", "timestamp", nil).AnyTimes()

	h.handleArchiveCommand(&model.CommandPayload{ChannelID: "C1", UserID: "U1"})
	assert.Equal(t, 1, h.sched.Pending())

	assert.Eventually(t, func() bool {
		return h.sched.Pending() == 0
	}, 3*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		entries, err := h.ds.RecentLogs(5)
		if err != nil || len(entries) == 0 {
			return false
		}
		for _, e := range entries {
			if e.Level == model.LevelError {
				return true
			}
		}
		return false
	}, 3*time.Second, 10*time.Millisecond)
}
