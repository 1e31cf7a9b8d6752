package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/pyama86/slack-concierge/config"
	"github.com/pyama86/slack-concierge/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	h, err := handler.NewHandler(cfg)
	if err != nil {
		slog.Error("NewHandler failed", slog.Any("err", err))
		os.Exit(1)
	}

	slog.Info("Server listening", slog.String("bind", cfg.ListenSocket))
	if err := http.ListenAndServe(cfg.ListenSocket, h.Routes()); err != nil {
		slog.Error("Server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
