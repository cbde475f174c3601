package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"panelsync/internal/infrastructure/migration"
	"panelsync/internal/interfaces/cli/bootstrap"
)

const defaultScriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env        string
	name       string
	scriptsDir string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Run, roll back and inspect the versioned schema migrations. sqlite databases are migrated with gorm AutoMigrate.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration",
		RunE:  runCreate,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&scriptsDir, "dir", defaultScriptsDir, "Directory of the SQL scripts")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runUp(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Logger.Infow("running up migrations", "environment", env, "driver", rt.Config.Database.Driver)
	if err := migration.NewManager(rt.DB, rt.Logger).Migrate(rt.DB); err != nil {
		return err
	}
	return nil
}

// gooseStrategy returns the goose strategy, which only targets MySQL.
func gooseStrategy(rt *bootstrap.Runtime) (*migration.GooseStrategy, error) {
	if rt.Config.Database.Driver != "mysql" {
		return nil, fmt.Errorf("versioned migrations are only supported on mysql, got %q", rt.Config.Database.Driver)
	}
	return migration.NewGooseStrategy("mysql", rt.Logger), nil
}

func runDown(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	strategy, err := gooseStrategy(rt)
	if err != nil {
		return err
	}

	rt.Logger.Infow("running down migrations", "environment", env, "steps", steps)
	if err := strategy.MigrateDown(rt.DB, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	strategy, err := gooseStrategy(rt)
	if err != nil {
		return err
	}

	version, err := strategy.GetVersion(rt.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	return strategy.Status(rt.DB)
}

func runCreate(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := migration.NewGooseStrategy("mysql", rt.Logger).Create(scriptsDir, name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migration %q created in %s\n", name, scriptsDir)
	return nil
}
