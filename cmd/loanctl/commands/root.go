package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vehicleloan/internal/adapter/repository"
	"vehicleloan/internal/config"
	"vehicleloan/internal/infrastructure/logger"
	"vehicleloan/internal/usecase/registry"
)

// skipStoreAnnotation names a flag that, when set on a command, means the
// command does not touch the store.
const skipStoreAnnotation = "loanctl/skip-store-flag"

// env is what subcommands share once the root has run.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	reg     *registry.Registry
	closeFn func() error
}

func Execute() error {
	return newRootCmd(config.Load).Execute()
}

func newRootCmd(load func() *config.Config) *cobra.Command {
	var (
		driver string
		key    string
		sqlite string
		e      = &env{}
	)

	root := &cobra.Command{
		Use:          "loanctl",
		Short:        "Inspect and review vehicle loan applications",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.cfg = load()
			if driver != "" {
				e.cfg.StoreDriver = driver
			}
			if key != "" {
				e.cfg.StoreKey = key
			}
			if sqlite != "" {
				e.cfg.SQLitePath = sqlite
			}

			log, err := logger.New(e.cfg.LogLevel, "console")
			if err != nil {
				return err
			}
			e.log = log

			if name, ok := cmd.Annotations[skipStoreAnnotation]; ok {
				if f := cmd.Flags().Lookup(name); f != nil && f.Value.String() != "" {
					return nil
				}
			}

			store, closeFn, err := repository.OpenSlotStore(cmd.Context(), e.cfg, nil)
			if err != nil {
				return err
			}
			e.closeFn = closeFn
			e.reg, err = registry.Open(cmd.Context(), store, log)
			if err != nil {
				_ = closeFn()
				e.closeFn = nil
			}
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.log != nil {
				_ = e.log.Sync()
			}
			if e.closeFn != nil {
				return e.closeFn()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&driver, "driver", "", "store driver: redis, sqlite or mysql (default from STORE_DRIVER)")
	root.PersistentFlags().StringVar(&key, "key", "", "slot key (default from STORE_KEY)")
	root.PersistentFlags().StringVar(&sqlite, "sqlite", "", "sqlite file (default from SQLITE_PATH)")

	root.AddCommand(listCmd(e), statsCmd(e), showCmd(e), reviewCmd(e))
	return root
}
