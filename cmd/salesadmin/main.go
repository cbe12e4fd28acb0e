package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"sales-admin/internal/api"
	"sales-admin/internal/config"
	"sales-admin/internal/event"
	"sales-admin/internal/resource"
	"sales-admin/internal/session"
	"sales-admin/internal/store"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: config.yaml in the working directory)")
	flag.Parse()

	// .env is optional; real config comes from the file and environment.
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		log.Fatalf("salesadmin: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(filepath.Join(cfg.Storage.DataDir, "credentials.db"))
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer st.Close()

	bus := event.NewBus()
	client, err := api.New(cfg.API.BaseURL, cfg.API.Timeout(), st, bus)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          session.ViewLogin + "> ",
		HistoryFile:     filepath.Join(cfg.Storage.DataDir, "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	c := &console{
		rl:          rl,
		exportDir:   cfg.Export.Dir,
		view:        session.ViewLogin,
		salesQuery:  resource.NewSalesQuery(client),
		salesMut:    resource.NewSalesMutator(client),
		salesExport: resource.NewSalesExporter(client, cfg.Export.Dir),
		usersQuery:  resource.NewUsersQuery(client),
		usersMut:    resource.NewUsersMutator(client),
		logsQuery:   resource.NewLogsQuery(client),
		logsExport:  resource.NewLogsExporter(client, cfg.Export.Dir),
	}
	c.session = session.NewManager(client, st, c, bus)

	// Read-only notice; session teardown itself is handled by the manager.
	bus.Subscribe(event.SessionExpired, func(event.Event) {
		fmt.Println("Your session has expired. Please sign in again.")
	})

	fmt.Println("Casa Alves sales admin. Type 'help' for a list of commands.")
	c.session.Initialize(context.Background())
	if user := c.session.CurrentUser(); user != nil {
		fmt.Printf("Signed in as %s.\n", user.Name)
		c.NavigateTo(session.ViewHome)
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if line == "exit" || line == "quit" {
			break
		}
		c.dispatch(line)
	}

	fmt.Println("Goodbye!")
	return nil
}
