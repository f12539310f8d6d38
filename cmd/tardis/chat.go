package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tardislabs/tardis/internal/config"
	ctxengine "github.com/tardislabs/tardis/internal/context"
	"github.com/tardislabs/tardis/internal/memory"
	"github.com/tardislabs/tardis/internal/memory/sqlite"
	"github.com/tardislabs/tardis/internal/provider"
	"github.com/tardislabs/tardis/internal/relay"
	"github.com/tardislabs/tardis/internal/session"
	"github.com/tardislabs/tardis/internal/upstream"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd)

			prov, err := chatProvider(cmd, cfg)
			if err != nil {
				return err
			}

			store, closeStore, err := chatStore(cmd, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			ctrl := session.New(prov, store, cfg.Session, logger)
			defer ctrl.Close()
			ctrl.SetPersona(chatPersona(cmd, cfg))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runREPL(ctx, cmd, ctrl)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.Flags().String("relay", "", "Relay base URL to talk through instead of the upstream API")
	cmd.Flags().Bool("ephemeral", false, "Keep history in memory only, skipping the SQLite store")
	cmd.Flags().Int("truthfulness", -1, "Persona truthfulness level (0-100)")
	cmd.Flags().Int("levity", -1, "Persona levity level (0-100)")
	return cmd
}

// chatProvider picks the completion backend: a running relay when --relay
// is given, the upstream API otherwise.
func chatProvider(cmd *cobra.Command, cfg *config.Config) (provider.Provider, error) {
	if relayURL, _ := cmd.Flags().GetString("relay"); relayURL != "" {
		return relay.NewClient(relayURL, cfg.Session.Model, cfg.Session.RequestTimeout), nil
	}
	return upstream.New(cfg.Upstream)
}

// chatStore opens the configured memory backend. The returned func closes it.
func chatStore(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (memory.Store, func(), error) {
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		return memory.NewInMemoryStore(), func() {}, nil
	}

	path := cfg.Memory.Path
	if path == "" {
		path = filepath.Join(defaultDataDir(), "memory.db")
	}

	store, err := sqlite.Open(path, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func chatPersona(cmd *cobra.Command, cfg *config.Config) ctxengine.Persona {
	p := ctxengine.Persona{Truthfulness: 70, Levity: 40}
	if cfg.Persona.Truthfulness != nil {
		p.Truthfulness = *cfg.Persona.Truthfulness
	}
	if cfg.Persona.Levity != nil {
		p.Levity = *cfg.Persona.Levity
	}
	if v, _ := cmd.Flags().GetInt("truthfulness"); v >= 0 {
		p.Truthfulness = v
	}
	if v, _ := cmd.Flags().GetInt("levity"); v >= 0 {
		p.Levity = v
	}
	return p
}

func runREPL(ctx context.Context, cmd *cobra.Command, ctrl *session.Controller) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "tardis ready. Type /quit to exit, /reset to clear the conversation.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		switch line {
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := ctrl.Reset(); err != nil {
				fmt.Fprintf(out, "tardis> could not clear memory: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "tardis> Conversation cleared.")
			continue
		}

		result, err := ctrl.Submit(ctx, line)
		if err != nil {
			if errors.Is(err, session.ErrEmptyInput) {
				continue
			}
			return err
		}
		fmt.Fprintf(out, "tardis> %s\n", result.Reply)
	}
}
