// Package app wires configuration, logging and the inventory store behind the stocktrack CLI.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stocktrack/pkg/config"
	"stocktrack/pkg/inventory"
)

// cli carries the state shared by every subcommand.
type cli struct {
	configPath string
	dataPath   string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	ownLogger bool
}

// Run executes the command line in args. A nil logger is built from configuration.
func Run(ctx context.Context, args []string, logger *zap.Logger) error {
	root := NewRootCommand(logger)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the stocktrack command tree. A nil logger is built from configuration
// before each command runs.
func NewRootCommand(logger *zap.Logger) *cobra.Command {
	c := &cli{logger: logger}

	root := &cobra.Command{
		Use:   "stocktrack",
		Short: "Track item quantities in a JSON inventory file",
		Long: `stocktrack keeps a mapping of item names to quantities in a JSON file.

Items are added and removed by quantity; an item whose quantity drops to zero
or below is removed. Items below a threshold are reported as low stock.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.ownLogger && c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	root.PersistentFlags().StringVar(&c.dataPath, "data", "", "Inventory file (overrides data_path)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.demoCmd(),
		c.addCmd(),
		c.removeCmd(),
		c.qtyCmd(),
		c.lowCmd(),
		c.reportCmd(),
		c.runCmd(),
		c.watchCmd(),
		c.initConfigCmd(),
		versionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger once per invocation.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataPath = c.dataPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.cfg = cfg

	if c.logger == nil {
		logger, err := newLogger(cfg.Logging, c.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		c.logger = logger
		c.ownLogger = true
	}
	c.logger.Debug("configuration loaded",
		zap.String("config", c.configPath),
		zap.String("data_path", cfg.DataPath),
		zap.Float64("low_threshold", cfg.LowThreshold))
	return nil
}

// openStore returns the inventory for a command. reset starts empty instead of reading the file.
func (c *cli) openStore(reset bool) *inventory.Store {
	store := inventory.NewStore()
	if reset {
		c.logger.Info("Starting with fresh inventory")
		return store
	}
	c.diagnose("load", store.Load(c.cfg.DataPath))
	return store
}

// save persists store and logs the result line.
func (c *cli) save(store *inventory.Store) {
	c.diagnose("save", store.Save(c.cfg.DataPath))
}

// diagnose logs the diagnostic line for op: a warning when err is set, the confirmation otherwise.
func (c *cli) diagnose(op string, err error) {
	if err != nil {
		c.logger.Warn(inventory.Describe(op, err),
			zap.String("op", op),
			zap.Stringer("outcome", inventory.OutcomeOf(err)))
		return
	}
	if msg := inventory.Confirm(op, c.cfg.DataPath); msg != "" {
		c.logger.Info(msg, zap.String("op", op))
	}
}

// threshold returns the --threshold flag when set, otherwise the configured value.
func (c *cli) threshold(cmd *cobra.Command) (inventory.Quantity, error) {
	if !cmd.Flags().Changed("threshold") {
		return inventory.Quantity(c.cfg.LowThreshold), nil
	}
	raw, err := cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return 0, err
	}
	return inventory.QuantityFrom("threshold", raw)
}
