package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gartstein/populate/internal/company/config"
	"github.com/gartstein/populate/internal/company/controller"
	"github.com/gartstein/populate/internal/company/db"
	"github.com/gartstein/populate/internal/company/events"
	"github.com/gartstein/populate/internal/company/fake"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Producer is what the populate command needs from an event sink.
type Producer interface {
	controller.EventProducer
	Close()
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "populate",
		Short:         "Development database tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPopulateCmd(logger, config.DefaultPath))
	return root
}

func newPopulateCmd(logger *zap.Logger, configPath string) *cobra.Command {
	return &cobra.Command{
		Use:   "db:populate",
		Short: "Populate database",
		Long: `Reset the companies, offices and employees tables, then fill them with
2 to 4 companies, 2 to 3 offices per company and 10 employees spread so
that every office has at least one.

WARNING: every existing company, office and employee is deleted first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return populate(cmd.Context(), cmd.OutOrStdout(), cfg, logger)
		},
	}
}

func populate(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintln(out, "Populate database...")

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := initProducer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Kafka producer: %w", err)
	}
	defer producer.Close()

	orchestrator := controller.NewSeedOrchestrator(repo, fake.New(cfg.Seed.SeedValue), producer, logger, seedPlan(cfg))
	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %d companies, %d offices and %d employees\n",
		summary.Companies, summary.Offices, summary.Employees)
	color.New(color.FgGreen, color.Bold).Fprintln(out, "Database populated successfully!")
	return nil
}

// initDatabase maps the file configuration onto the repository configuration.
func initDatabase(cfg *config.Config) *db.Config {
	return &db.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
		LogLevel: cfg.DBLogLevel,
	}
}

func initProducer(cfg *config.Config, logger *zap.Logger) (Producer, error) {
	if !cfg.EventsEnabled() {
		return events.Nop{}, nil
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		return nil, err
	}
	return producer, nil
}

// seedPlan starts from the default plan and applies the non-zero overrides.
func seedPlan(cfg *config.Config) controller.Plan {
	plan := controller.DefaultPlan()
	overrides := []struct {
		value  int
		target *int
	}{
		{cfg.Seed.MinCompanies, &plan.MinCompanies},
		{cfg.Seed.MaxCompanies, &plan.MaxCompanies},
		{cfg.Seed.MinOffices, &plan.MinOffices},
		{cfg.Seed.MaxOffices, &plan.MaxOffices},
		{cfg.Seed.TotalEmployees, &plan.TotalEmployees},
	}
	for _, o := range overrides {
		if o.value != 0 {
			*o.target = o.value
		}
	}
	return plan
}
