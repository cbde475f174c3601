package worker

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"panelsync/internal/interfaces/cli/bootstrap"
	"panelsync/internal/shared/version"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the scheduled reconciliation jobs",
		Long:  `Run usage sync, time window enforcement, the reactivation sweep and wallet
billing on their configured intervals until interrupted.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.Logger
	log.Infow("starting reconciliation worker", "environment", env, "version", version.String())

	container, err := rt.Container()
	if err != nil {
		return err
	}
	defer container.Shutdown()

	jobs, err := container.StartScheduler()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.Warnw("no scheduled jobs are enabled")
	}
	log.Infow("reconciliation worker started", "jobs", jobs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig.String())
	return nil
}
