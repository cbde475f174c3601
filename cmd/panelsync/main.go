package main

import (
	"os"

	"github.com/spf13/cobra"

	"panelsync/internal/interfaces/cli/migrate"
	"panelsync/internal/interfaces/cli/ops"
	"panelsync/internal/interfaces/cli/server"
	"panelsync/internal/interfaces/cli/worker"
	"panelsync/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "panelsync",
		Short:   "panelsync - reseller usage reconciliation for VPN panels",
		Long:    `panelsync reconciles reseller traffic across Marzban, Marzneshin, Eylandoo, OVPanel and X-UI panels and suspends or reactivates configs when quotas, time windows or wallets run out.`,
		Version: version.String(),
	}
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		ops.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
