package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Guerrilla-Interactive/readmegen/app"
	"github.com/Guerrilla-Interactive/readmegen/app/form"
	loginScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/login"
	receiptScreen "github.com/Guerrilla-Interactive/readmegen/app/screens/receipt"
	"github.com/Guerrilla-Interactive/readmegen/app/share"
	appUtils "github.com/Guerrilla-Interactive/readmegen/app/utils"
	"github.com/Guerrilla-Interactive/readmegen/internal/auth"
	"github.com/Guerrilla-Interactive/readmegen/internal/config"
	"github.com/Guerrilla-Interactive/readmegen/internal/llm"
	"github.com/Guerrilla-Interactive/readmegen/internal/logging"
	"github.com/Guerrilla-Interactive/readmegen/internal/server"
	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds the flags and services shared by every command.
type cli struct {
	debug   bool
	logFile string
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "readmegen",
		Short:         "Build a GitHub profile README from a short questionnaire",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := logging.Options{Debug: c.debug, File: c.logFile}
			// serve logs to stderr; everything else shares the terminal with us.
			if cmd.Name() != "serve" && opts.File == "" {
				if dir, err := config.Dir(); err == nil {
					opts.File = filepath.Join(dir, "readmegen.log")
				}
			}
			logger, err := logging.New(opts)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runTUI,
	}
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "Write logs to this file (default ~/.readmegen/readmegen.log)")

	root.AddCommand(c.serveCmd(), c.loginCmd(), c.logoutCmd(), c.generateCmd(), c.cardCmd())
	return root
}

// session loads the saved answers and the form store mirrored to them.
func (c *cli) session() (*storage.Local, *form.Store, error) {
	dir, err := storage.DefaultDir()
	if err != nil {
		return nil, nil, err
	}
	kv, err := storage.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	store := form.NewStore(form.Load(kv, c.logger))
	store.Subscribe(form.Persist(kv, c.logger))
	return kv, store, nil
}

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	kv, store, err := c.session()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		c.logger.Warn("could not load config, starting signed out", zap.Error(err))
	}
	m := app.Model{
		CurrentScreen: app.ScreenLogin,
		IsLoggedIn:    cfg.IsLoggedIn && cfg.Token != "",
		User:          cfg.User,
		Logger:        c.logger,
		Storage:       kv,
		Store:         store,
		OutputDir:     cfg.OutputDir,
		ReturnScreen:  app.ScreenWizard,
	}
	if m.IsLoggedIn {
		m.CurrentScreen = app.ScreenWizard
	}
	c.logger.Info("starting interactive mode", zap.Bool("logged_in", m.IsLoggedIn))

	final, err := tea.NewProgram(NewProgramModel(m), tea.WithAltScreen()).Run()
	if pm, ok := final.(ProgramModel); ok {
		pm.M.CancelGeneration()
		if path := pm.M.Receipt.SavedPath; path != "" {
			fmt.Println("README saved to", path)
		}
	}
	return err
}

func (c *cli) serveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the generation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			upstream, err := newUpstream(ctx, cfg.LLM, c.logger)
			if err != nil {
				return err
			}
			provider := auth.NewClerk(cfg.Auth.SecretKey)
			c.logger.Info("starting server",
				zap.String("addr", cfg.Addr),
				zap.String("llm", cfg.LLM.Provider),
				zap.String("model", cfg.LLM.Model))
			return server.New(cfg, provider, upstream, c.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML server config")
	return cmd
}

func newUpstream(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (llm.Upstream, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return llm.NewGemini(ctx, cfg.APIKey, "")
	case "", "openai":
		return llm.NewOpenAI(cfg.BaseURL, cfg.APIKey, logger), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.LoadConfig()
			fmt.Println("Opening your browser to sign in...")
			token, err := loginScreen.WaitForToken(cmd.Context(), cfg.ServerBaseURL())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()
			user, err := loginScreen.Complete(ctx, token)
			if err != nil {
				return fmt.Errorf("signed in, but failed to fetch account: %w", err)
			}
			fmt.Printf("Welcome, %s!\n", user.DisplayName())
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget saved answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.LoadConfig()
			if err := config.SaveConfig(cfg.SignOut()); err != nil {
				return err
			}
			kv, _, err := c.session()
			if err != nil {
				return err
			}
			if err := kv.Clear(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func (c *cli) generateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a README from the saved answers without the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.LoadConfig()
			if !cfg.IsLoggedIn || cfg.Token == "" {
				return errors.New("not logged in: run `readmegen login` first")
			}
			_, store, err := c.session()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			client := appUtils.NewClient(cfg.ServerBaseURL(), cfg.Token)
			ch, err := client.GenerateStream(ctx, appUtils.GenerateRequest{FormData: store.Snapshot(), User: cfg.User})
			if err != nil {
				return err
			}
			var b strings.Builder
			for ev := range ch {
				if ev.Err != nil {
					return ev.Err
				}
				b.WriteString(ev.Chunk)
				fmt.Fprint(cmd.OutOrStdout(), ev.Chunk)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if ctx.Err() != nil {
				return ctx.Err()
			}
			path := outPath(out, cfg, receiptScreen.ReadmeName)
			if err := receiptScreen.WriteMarkdown(path, appUtils.StripCodeFence(b.String())); err != nil {
				return err
			}
			c.logger.Info("README saved", zap.String("path", path))
			fmt.Fprintln(cmd.ErrOrStderr(), "README saved to", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "File to write (default: README.md in the output directory)")
	return cmd
}

func (c *cli) cardCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render the profile share card as a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.LoadConfig()
			if cfg.User == nil {
				return errors.New("no account details: run `readmegen login` first")
			}
			_, store, err := c.session()
			if err != nil {
				return err
			}
			card := share.Card{
				Name:   cfg.User.DisplayName(),
				Handle: cfg.User.GitHubUsername,
				ID:     cfg.User.ID,
				Accent: store.Snapshot().String(form.KeyAccentColor),
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			path, err := receiptScreen.SaveCard(ctx, outPath(out, cfg, receiptScreen.CardName), card, cfg.User.AvatarURL, c.logger)
			if err != nil {
				return err
			}
			fmt.Println("Card saved to", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "File to write (default: profile-card.png in the output directory)")
	return cmd
}

// outPath is the --out flag, or name inside the configured output directory.
func outPath(flag string, cfg config.Config, name string) string {
	switch {
	case flag != "":
		return flag
	case cfg.OutputDir != "":
		return filepath.Join(cfg.OutputDir, name)
	}
	return name
}
