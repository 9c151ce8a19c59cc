package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mfsandbox/camacho-chat/internal/client"
	"github.com/mfsandbox/camacho-chat/internal/config"
	"github.com/mfsandbox/camacho-chat/internal/logging"
	chatsvc "github.com/mfsandbox/camacho-chat/internal/service/chat"
	"github.com/mfsandbox/camacho-chat/internal/tui"
)

type options struct {
	baseURL   string
	transport string
	seed      uint64
	height    int
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "camacho",
		Short:         "Chat with President Camacho from your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runInteractive(cmd.Context(), cfg, logger)
		},
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "chat backend base URL (env CAMACHO_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.transport, "transport", "", "http or ws (env CAMACHO_TRANSPORT)")
	root.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "fallback line random seed, 0 seeds from the clock (env CAMACHO_SEED)")
	root.PersistentFlags().IntVar(&opts.height, "height", 0, "visible transcript rows (env CAMACHO_VIEW_HEIGHT)")

	root.AddCommand(newSayCmd(&opts))
	return root
}

// setup loads configuration, applies flag overrides and opens the log file.
func setup(cmd *cobra.Command, opts options) (*config.Config, *zap.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, cfg, opts)

	logger, err := logging.NewFile(cfg.Log, cfg.Client.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Client.BaseURL = opts.baseURL
	}
	if flags.Changed("transport") {
		cfg.Client.Transport = opts.transport
	}
	if flags.Changed("seed") {
		cfg.Client.Seed = opts.seed
	}
	if flags.Changed("height") && opts.height > 0 {
		cfg.Client.ViewHeight = opts.height
	}
}

func newSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*chatsvc.Session, error) {
	replier, err := client.New(cfg.Client.Transport, cfg.Client.BaseURL)
	if err != nil {
		return nil, err
	}

	opts := []chatsvc.Option{
		chatsvc.WithLogger(logger.Named("session")),
		chatsvc.WithContext(ctx),
	}
	if cfg.Client.Seed != 0 {
		opts = append(opts, chatsvc.WithSeed(cfg.Client.Seed))
	}

	logger.Info("chat session started",
		zap.String("base_url", cfg.Client.BaseURL),
		zap.String("transport", cfg.Client.Transport),
	)
	return chatsvc.NewSession(replier, opts...), nil
}

func runInteractive(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	session, err := newSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	model := tui.New(session, cfg.Client.ViewHeight)
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("chat window failed: %w", err)
	}
	return nil
}

func newSayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "say <message...>",
		Short: "Send one message and print the exchange",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, *opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			session, err := newSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return say(cmd.OutOrStdout(), session, strings.Join(args, " "))
		},
	}
}

// say runs a single turn and prints the transcript.
func say(w io.Writer, session *chatsvc.Session, text string) error {
	if !session.Submit(text) {
		return fmt.Errorf("nothing to say")
	}
	session.Wait()

	for _, msg := range session.Messages() {
		if _, err := fmt.Fprintf(w, "%s%s\n", msg.Sender.Label(), msg.Text); err != nil {
			return err
		}
	}
	return nil
}
