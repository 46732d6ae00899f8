package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	signup "github.com/goliatone/go-signup"
	"github.com/goliatone/go-signup/internal/config"
	"github.com/goliatone/go-signup/pkg/catalog"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger

	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "signup",
		Short:         "Quick Med sign-up flow",
		Long:          "Serves the two-step Quick Med sign-up wizard over HTTP or runs it as terminal prompts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg)
			if a.verbose {
				cfg.LogLevel = "debug"
			}
			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.String("catalog", "", "YAML file overlaid on the embedded catalog (SIGNUP_CATALOG_PATH)")
	flags.String("locale", "", "message locale (SIGNUP_LOCALE)")
	flags.String("backend", "", "backend base URL; submissions are only logged when empty (SIGNUP_BACKEND_URL)")

	root.AddCommand(newServeCmd(a), newPromptCmd(a))
	return root
}

// applyFlags copies explicitly set flags over the environment values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, target *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*target = f.Value.String()
		}
	}
	set("catalog", &cfg.CatalogPath)
	set("locale", &cfg.Locale)
	set("backend", &cfg.BackendURL)
	set("addr", &cfg.Addr)
	set("base-path", &cfg.BasePath)
	set("theme-variant", &cfg.ThemeVariant)
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func (a *app) service(ctx context.Context, extra ...signup.Option) (*signup.Service, error) {
	cat := catalog.Default()
	if a.cfg.CatalogPath != "" {
		loaded, err := catalog.Load(a.cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	sink, err := signup.NewBackendSink(ctx, a.cfg.BackendURL, a.cfg.BackendTimeout, a.logger)
	if err != nil {
		return nil, err
	}

	opts := append([]signup.Option{
		signup.WithCatalog(cat),
		signup.WithSink(sink),
		signup.WithLogger(a.logger),
		signup.WithSessionTTL(a.cfg.SessionTTL),
		signup.WithSweepInterval(a.cfg.SweepInterval),
		signup.WithTemplateDir(a.cfg.TemplateDir),
	}, extra...)
	return signup.New(opts...)
}
