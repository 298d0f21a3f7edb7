// Package migrate implements the database migration commands.
package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	appstatus "github.com/praxisops/praxis/internal/application/status"
	"github.com/praxisops/praxis/internal/domain/user"
	"github.com/praxisops/praxis/internal/infrastructure/auth"
	"github.com/praxisops/praxis/internal/infrastructure/config"
	"github.com/praxisops/praxis/internal/infrastructure/database"
	"github.com/praxisops/praxis/internal/infrastructure/repository"
	"github.com/praxisops/praxis/internal/shared/db"
	"github.com/praxisops/praxis/internal/shared/logger"
)

var (
	env       string
	email     string
	name      string
	password  string
	superUser bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Create the schema, seed the default status catalog, and bootstrap users.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newSeedCommand(),
		newCreateUserCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := connect()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.AutoMigrate(gdb); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("schema is up to date")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default ticket status catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := connect()
			if err != nil {
				return err
			}
			defer database.Close()

			cfg := config.Get()
			log := logger.NewLogger()
			engine := appstatus.NewEngine(
				repository.NewTicketStatusRepository(gdb),
				repository.NewTicketRepository(gdb),
				db.NewTransactionManager(gdb),
				cfg.Tickets.TerminalStatuses,
				log,
			)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := engine.EnsureDefaults(ctx); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			fmt.Println("status catalog seeded")
			return nil
		},
	}
}

func newCreateUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a portal user",
		RunE:  runCreateUser,
	}

	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (required)")
	cmd.Flags().BoolVar(&superUser, "super-admin", false, "Grant super admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	gdb, err := connect()
	if err != nil {
		return err
	}
	defer database.Close()

	cfg := config.Get()
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)
	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	u, err := user.NewUser(email, name, hash, now)
	if err != nil {
		return err
	}
	if superUser {
		u = user.ReconstructUser(0, u.Email(), u.Name(), hash, true, false, "", now, now)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.NewUserRepository(gdb).Save(ctx, u); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	fmt.Printf("created user %d (%s)\n", u.ID(), u.Email())
	return nil
}

func connect() (*gorm.DB, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database.Get(), nil
}
