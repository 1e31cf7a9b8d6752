package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jellydator/ttlcache/v3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pyama86/slack-concierge/config"
	"github.com/pyama86/slack-concierge/domain/infra"
	"github.com/pyama86/slack-concierge/domain/model"
	"github.com/pyama86/slack-concierge/scheduler"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

const (
	cmdHello   = "/hello"
	cmdMail    = "/mail"
	cmdArchive = "/slack-archive"
	cmdLogTest = "/logtest"
)

type Handler struct {
	client   infra.SlackAPI
	mail     infra.MailAPI
	storage  infra.Storage
	ds       infra.Datastore
	sink     *infra.Sink
	digest   *infra.OpenAI
	cfg      *config.Config
	sched    *scheduler.Scheduler
	limiter  *rate.Limiter
	seen     *ttlcache.Cache[string, struct{}]
	commands map[string]func(*model.CommandPayload)
}

func NewHandler(cfg *config.Config) (*Handler, error) {
	var ds infra.Datastore
	var err error
	if cfg.DBDriver == "dynamodb" {
		ds, err = infra.NewDynamoDB()
		if err != nil {
			return nil, err
		}
	} else {
		ds, err = infra.NewDataBase(cfg.DBPath)
		if err != nil {
			return nil, err
		}
	}

	digest, err := infra.NewOpenAI()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		client:  slack.New(cfg.SlackBotToken),
		storage: infra.NewLocalStorage(cfg.ArchiveExportDir),
		ds:      ds,
		sink:    infra.NewSink(ds),
		digest:  digest,
		cfg:     cfg,
		sched:   scheduler.New(),
		limiter: rate.NewLimiter(rate.Every(cfg.APICallInterval), 1),
		seen:    ttlcache.New(ttlcache.WithTTL[string, struct{}](5 * time.Minute)),
	}
	h.commands = map[string]func(*model.CommandPayload){
		cmdHello:   h.handleHelloCommand,
		cmdMail:    h.handleMailCommand,
		cmdArchive: h.handleArchiveCommand,
		cmdLogTest: h.handleLogTestCommand,
	}
	go h.seen.Start()
	return h, nil
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	r.Get("/slack/commands", h.HandleChallenge)
	r.Post("/slack/commands", h.HandleSlackCommand)
	return r
}

// Slackのエンドポイント検証(GET版)。challengeをそのまま返すだけ
func (h *Handler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, r.URL.Query().Get("challenge"))
}

func (h *Handler) HandleSlackCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sink.Log("ERROR: failed to read request body. "+err.Error(), model.LevelError)
		w.WriteHeader(http.StatusOK)
		return
	}

	payload := parsePayload(body)

	// エンドポイント検証(JSONボディ版)
	if payload.Type == "url_verification" {
		fmt.Fprint(w, payload.Challenge)
		return
	}

	if !h.verifyRequest(r.Header, body, payload) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "Unauthorized")
		return
	}

	if payload.Command == "" {
		raw, _ := json.Marshal(payload)
		h.sink.Log("ERROR: Unsupported payload format: "+string(raw), model.LevelError)
		w.WriteHeader(http.StatusOK)
		return
	}

	cmd, ok := h.commands[payload.Command]
	if !ok {
		h.sink.Log("ERROR: Received unknown command: "+payload.Command, model.LevelError)
		w.WriteHeader(http.StatusOK)
		return
	}

	// ackが遅れるとSlackは同じコマンドを再送してくる。同一配送は一度だけ処理する
	if payload.TriggerID != "" {
		if h.seen.Get(payload.TriggerID) != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.seen.Set(payload.TriggerID, struct{}{}, ttlcache.DefaultTTL)
	}

	cmd(payload)
	w.WriteHeader(http.StatusOK)
}

// JSONとして読めなければスラッシュコマンドのform-encoded形式とみなす。
// 同じバイト列を両方の解釈で使うことはない
func parsePayload(body []byte) *model.CommandPayload {
	var p model.CommandPayload
	if err := json.Unmarshal(body, &p); err == nil {
		return &p
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return &model.CommandPayload{}
	}
	return &model.CommandPayload{
		Token:       values.Get("token"),
		Command:     values.Get("command"),
		Text:        values.Get("text"),
		ChannelID:   values.Get("channel_id"),
		ChannelName: values.Get("channel_name"),
		UserID:      values.Get("user_id"),
		UserName:    values.Get("user_name"),
		TriggerID:   values.Get("trigger_id"),
	}
}

// 署名シークレットがあればHMAC署名検証を使う。
// 無ければ旧来のVerification Token比較にフォールバックする。
// トークン方式は平文トークンがボディに載って流れるためSlackでは非推奨だが、
// リクエストヘッダを読めない実行環境から移行した設定を壊さないために残している
func (h *Handler) verifyRequest(header http.Header, body []byte, payload *model.CommandPayload) bool {
	if h.cfg.SlackSigningSecret != "" {
		sv, err := slack.NewSecretsVerifier(header, h.cfg.SlackSigningSecret)
		if err != nil {
			h.sink.Log("ERROR: failed to initialize signature verifier. "+err.Error(), model.LevelError)
			return false
		}
		if _, err := sv.Write(body); err != nil {
			return false
		}
		if err := sv.Ensure(); err != nil {
			h.sink.Log("ERROR: Invalid request signature for command: "+payload.Command, model.LevelError)
			return false
		}
		return true
	}

	if payload.Token == "" {
		h.sink.Log("ERROR: No token found in request payload. Possible unauthorized access.", model.LevelError)
		return false
	}
	if payload.Token != h.cfg.SlackVerificationToken {
		h.sink.Log("ERROR: Invalid Verification Token for command: "+payload.Command, model.LevelError)
		return false
	}
	return true
}

// fire-and-forget。失敗はログに残すだけで呼び出し元には返さない
func (h *Handler) postMessage(channelID, text string) {
	if _, _, err := h.client.PostMessage(channelID, slack.MsgOptionText(text, false)); err != nil {
		h.sink.Log(fmt.Sprintf("ERROR: Failed to post message to %s. %s", channelID, err.Error()), model.LevelError)
	}
}

func timeNow() time.Time {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
