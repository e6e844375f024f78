// File: cmd/chat-cli/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pitwall-gateway/internal/application"
	"pitwall-gateway/internal/config"
	"pitwall-gateway/internal/domain/model"
	"pitwall-gateway/internal/infra/adapters/backend"
	"pitwall-gateway/internal/infra/i18n"
	"pitwall-gateway/internal/infra/logging"
	"pitwall-gateway/internal/infra/slotstore"
	"pitwall-gateway/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	baseURL := flag.String("base", "", "override backend.base_url")
	devMode := flag.Bool("dev", false, "enable developer mode")
	lang := flag.String("lang", i18n.DefaultLang, "message language (en|es)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *baseURL != "" {
		cfg.Backend.BaseURL = strings.TrimRight(*baseURL, "/")
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.Log, cfg.Runtime.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, closeSlot, err := slotstore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer func() { _ = closeSlot() }()

	be, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	store := usecase.NewSessionStore(slot, be.Origin(), logger, cfg.Runtime.Dev)
	sessions := usecase.NewSessionUseCase(store, be, cfg.Session.SingleFlight, logger, cfg.Runtime.Dev)
	chat := usecase.NewChatUseCase(be, sessions, logger, cfg.Runtime.Dev)
	facade := application.NewChatFacade(chat, sessions, logger)

	r := &repl{facade: facade, out: os.Stdout, tr: i18n.Load(*lang)}
	r.run(ctx, os.Stdin)
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string, dev bool) (*config.Config, error) {
	cfg, err := config.LoadConfig(path, dev)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
		cfg.Runtime.Dev = dev
		return cfg, nil
	}
	return cfg, err
}

type repl struct {
	facade *application.ChatFacade
	out    io.Writer
	tr     *i18n.Translator
	conv   model.Conversation
}

func (r *repl) run(ctx context.Context, in io.Reader) {
	fmt.Fprintln(r.out, r.tr.T("banner"))
	if id, err := r.facade.GetOrCreateSession(ctx); err != nil {
		fmt.Fprintln(r.out, r.tr.T("session_unavailable", err))
	} else {
		fmt.Fprintln(r.out, r.tr.T("session_started", id))
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() || ctx.Err() != nil {
			fmt.Fprintln(r.out)
			return
		}
		if !r.line(ctx, sc.Text()) {
			return
		}
	}
}

// line handles one input line and reports whether the loop should continue.
func (r *repl) line(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	switch text {
	case "":
		return true
	case "/quit", "/exit":
		return false
	case "/session":
		if id, ok := r.facade.GetCurrentSession(ctx); ok {
			fmt.Fprintln(r.out, r.tr.T("session_current", id, r.facade.SessionState()))
		} else {
			fmt.Fprintln(r.out, r.tr.T("session_none", r.facade.SessionState()))
		}
		return true
	case "/reset":
		r.conv.Clear()
		id, err := r.facade.RefreshSession(ctx)
		if err != nil {
			fmt.Fprintln(r.out, r.tr.T("refresh_failed", err))
			return true
		}
		fmt.Fprintln(r.out, r.tr.T("session_new", id))
		return true
	case "/history":
		for _, m := range r.conv.Messages() {
			fmt.Fprintf(r.out, "[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
		}
		return true
	}

	id, ok := r.facade.GetCurrentSession(ctx)
	if !ok {
		fmt.Fprintln(r.out, r.tr.T("session_waiting"))
		var err error
		if id, err = r.facade.GetOrCreateSession(ctx); err != nil {
			fmt.Fprintln(r.out, r.tr.T("session_unavailable", err))
			return true
		}
	}
	r.conv.Append(model.RoleUser, text)
	msg := r.conv.Record(r.facade.Handle(ctx, model.ChatRequest{Prompt: text, SessionID: id}))
	fmt.Fprintln(r.out, msg.Content)
	return true
}
