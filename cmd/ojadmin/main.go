package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/session"
	"ojadmin/internal/admin/transport"
	"ojadmin/internal/cli/command"
	"ojadmin/internal/cli/config"
	"ojadmin/internal/cli/repl"
	"ojadmin/pkg/utils/logger"
)

const defaultConfigPath = "configs/ojadmin.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	envFile := flag.String("env", ".env", "Path to dotenv file")
	baseURL := flag.String("base", "", "Override base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	token := flag.String("token", "", "Start with this admin token")
	statePath := flag.String("state", "", "Override session file path")
	ephemeral := flag.Bool("ephemeral", false, "Keep the session in memory only")
	flag.Parse()

	if err := config.LoadDotenv(*envFile); err != nil {
		return fmt.Errorf("load env file failed: %w", err)
	}
	path := *configPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *statePath != "" {
		cfg.Session.Backend = config.BackendFile
		cfg.Session.Path = *statePath
	}
	if *ephemeral {
		cfg.Session.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Init(cfg.Logger); err != nil {
		return fmt.Errorf("init logger failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := cfg.Session.OpenStore()
	if err != nil {
		return fmt.Errorf("open session store failed: %w", err)
	}
	defer func() { _ = closeStore() }()

	ctx := context.Background()
	sess := session.New(store, session.WithSecure(cfg.SecureCookies()))
	if *token != "" {
		if err := sess.SetCredential(ctx, *token, 0); err != nil {
			return fmt.Errorf("store token failed: %w", err)
		}
	}

	var opts []transport.Option
	if cfg.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(cfg.Timeout))
	}
	client, err := api.NewClient(cfg.BaseURL, sess, opts...)
	if err != nil {
		return fmt.Errorf("create client failed: %w", err)
	}
	if cred, ok, _ := sess.Credential(ctx); ok {
		client.Transport().SetCookie(cred.Cookie())
	}

	rl, err := repl.NewReadline(cfg.HistoryFile, command.Registry())
	if err != nil {
		return fmt.Errorf("open terminal failed: %w", err)
	}
	defer rl.Close()

	console := repl.New(cfg, client, rl, rl.Stdout())
	defer console.Close()
	fmt.Fprintf(rl.Stdout(), "ojadmin connected to %s (%s)\n", cfg.BaseURL, time.Now().Format("2006-01-02 15:04"))
	return console.Run(ctx)
}
