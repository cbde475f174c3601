// Package ops holds one-shot operator commands. Each command runs a single
// pass or manual action against the configured database and prints the
// result as JSON.
package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/domain/reseller"
	"panelsync/internal/interfaces/cli/bootstrap"
	httpRouter "panelsync/internal/interfaces/http"
)

var env string

// openUseCases builds the use cases for one command run. The returned func
// releases everything it opened.
var openUseCases = func(env string) (*httpRouter.UseCases, func(), error) {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return nil, nil, err
	}
	container, err := rt.Container()
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	return container.UseCases(), func() {
		container.Shutdown()
		rt.Close()
	}, nil
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Run reconciliation passes and manual actions once",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newSyncCommand(),
		newEnforceWindowCommand(),
		newReactivateCommand(),
		newBillCommand(),
		newTopUpCommand(),
		newPanelsCommand(),
		newSettingsCommand(),
	)

	return cmd
}

// runWith opens the use cases, runs fn with a context cancelled on SIGINT or
// SIGTERM and prints its result.
func runWith(cmd *cobra.Command, fn func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error)) error {
	ucs, closeFn, err := openUseCases(env)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := fn(ctx, ucs)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func newSyncCommand() *cobra.Command {
	var configID, resellerID uint
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the usage sync pass, or sync a single config or reseller",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configID != 0 && resellerID != 0 {
				return fmt.Errorf("--config and --reseller are mutually exclusive")
			}
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				switch {
				case configID != 0:
					return ucs.ManualSync.SyncConfig(ctx, configID)
				case resellerID != 0:
					return ucs.ManualSync.SyncReseller(ctx, resellerID)
				default:
					return ucs.SyncUsage.Execute(ctx, dto.SyncUsageRequest{})
				}
			})
		},
	}
	cmd.Flags().UintVar(&configID, "config", 0, "Sync only this config")
	cmd.Flags().UintVar(&resellerID, "reseller", 0, "Sync only this reseller's configs")
	return cmd
}

func newEnforceWindowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enforce-window",
		Short: "Suspend resellers whose time window has ended",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				return ucs.TimeWindow.Execute(ctx)
			})
		},
	}
}

func newReactivateCommand() *cobra.Command {
	var resellerID uint
	cmd := &cobra.Command{
		Use:   "reactivate",
		Short: "Run the reactivation sweep, or reactivate one reseller",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				if resellerID != 0 {
					return ucs.Reactivation.ReactivateOne(ctx, resellerID, reseller.SystemActor)
				}
				return ucs.Reactivation.Execute(ctx)
			})
		},
	}
	cmd.Flags().UintVar(&resellerID, "reseller", 0, "Reactivate only this reseller")
	return cmd
}

func newBillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bill",
		Short: "Bill wallet resellers for usage since the last pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				return ucs.BillWallets.Execute(ctx)
			})
		},
	}
}

func newTopUpCommand() *cobra.Command {
	var req dto.TopUpWalletRequest
	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Credit a verified wallet payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				return ucs.TopUpWallet.Execute(ctx, req, reseller.SystemActor)
			})
		},
	}
	cmd.Flags().StringVar(&req.Reference, "reference", "", "Gateway transaction reference")
	cmd.Flags().UintVar(&req.ResellerID, "reseller", 0, "Reseller ID")
	cmd.Flags().Int64Var(&req.Amount, "amount", 0, "Amount to credit")
	return cmd
}

func newPanelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panels",
		Short: "Manage panel registrations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered panels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				return ucs.Provisioning.ListPanels(ctx)
			})
		},
	}

	var req dto.RegisterPanelRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				return ucs.Provisioning.RegisterPanel(ctx, req)
			})
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "Panel name")
	add.Flags().StringVar(&req.Type, "type", "", "Panel type (marzban, marzneshin, eylandoo, ovpanel, xui)")
	add.Flags().StringVar(&req.BaseURL, "url", "", "Panel base URL")
	add.Flags().StringVar(&req.Username, "username", "", "Admin username")
	add.Flags().StringVar(&req.Password, "password", "", "Admin password")
	add.Flags().StringVar(&req.APIKey, "api-key", "", "API key for panels that use one")

	cmd.AddCommand(list, add)
	return cmd
}

func newSettingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the effective enforcement settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, func(ctx context.Context, ucs *httpRouter.UseCases) (interface{}, error) {
				return ucs.GetSettings.Execute(ctx), nil
			})
		},
	}
}
