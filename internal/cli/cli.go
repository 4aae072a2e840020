package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/di"
	"github.com/polkiloo/procurement/internal/logger"
	"github.com/polkiloo/procurement/internal/migration"
	"github.com/polkiloo/procurement/internal/pkg/auth"
)

// NewRootCommand builds the procurement CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "procurement",
		Short:         "Procurement order lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newHashPasswordCmd())

	return root
}

// Execute runs the CLI with ctx bound to every command.
func Execute(ctx context.Context) error {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// Service flags are parsed by the config loader, not by cobra.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Aliases:            []string{"run"},
		Short:              "Run the HTTP service",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application := fx.New(
				fx.Provide(func() context.Context { return ctx }),
				fx.Supply(config.Args(args)),
				di.Module(),
			)
			return run(ctx, application)
		},
	}
}

func run(ctx context.Context, app *fx.App) error {
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:                "up [flags]",
		Short:              "Apply pending migrations",
		DisableFlagParsing: true,
		RunE: withMigrator(func(cmd *cobra.Command, m *migration.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		}),
	}

	downCmd := &cobra.Command{
		Use:                "down [flags]",
		Short:              "Roll back all migrations",
		DisableFlagParsing: true,
		RunE: withMigrator(func(cmd *cobra.Command, m *migration.Migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return nil
		}),
	}

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func withMigrator(action func(*cobra.Command, *migration.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Args(args))
		if err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return cmd.Help()
			}
			return err
		}
		log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		defer func() { _ = log.Sync() }()

		m, err := migration.New(cfg.DatabaseURI, log.Named("migration"))
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("close migrator", zap.Error(err))
			}
		}()
		return action(cmd, m)
	}
}

// newHashPasswordCmd prints a bcrypt hash for users.password_hash. The
// password is read from stdin so it stays out of shell history.
func newHashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin for user provisioning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cost, _ := cmd.Flags().GetInt("cost")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			hash, err := auth.NewBcryptHasher(cost).Hash(strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().Int("cost", 0, "bcrypt cost, default when 0")
	return cmd
}
