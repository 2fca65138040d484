package app

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stocktrack/pkg/config"
	"stocktrack/pkg/inventory"
	"stocktrack/pkg/script"
	"stocktrack/pkg/version"
)

func (c *cli) demoCmd() *cobra.Command {
	var reset, journal bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the demonstration sequence, save, and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, err := script.Demo()
			if err != nil {
				return err
			}
			store := c.openStore(reset || c.cfg.Startup == config.StartupReset)
			c.execute(cmd.OutOrStdout(), demo, store, journal)
			c.save(store)
			fmt.Fprintln(cmd.OutOrStdout())
			return store.Report(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Start from an empty inventory instead of loading the data file")
	cmd.Flags().BoolVar(&journal, "journal", false, "Print the journal of additions")
	return cmd
}

func (c *cli) runCmd() *cobra.Command {
	var reset, save, journal bool
	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Execute a YAML script of inventory operations",
		Long: `Executes every step of a YAML script. Failing steps are reported and skipped.

Example script:
  name: restock
  steps:
    - {op: add, item: apple, qty: 10}
    - {op: remove, item: pear, qty: 2}
    - {op: low, threshold: 3}
    - {op: report}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.LoadFile(args[0])
			if err != nil {
				return err
			}
			c.logger.Debug("script loaded", zap.String("name", s.Name), zap.Int("steps", len(s.Steps)))
			store := c.openStore(reset || c.cfg.Startup == config.StartupReset)
			c.execute(cmd.OutOrStdout(), s, store, journal)
			if save {
				c.save(store)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Start from an empty inventory instead of loading the data file")
	cmd.Flags().BoolVar(&save, "save", false, "Save the inventory after the script")
	cmd.Flags().BoolVar(&journal, "journal", false, "Print the journal of additions")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add ITEM QTY",
		Short: "Add a quantity of an item and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.openStore(false)
			err := store.AddValue(args[0], quantityArg(args[1]), nil)
			c.diagnose("add", err)
			if err == nil {
				c.save(store)
			}
			return nil
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ITEM QTY",
		Short: "Remove a quantity of an item and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.openStore(false)
			err := store.RemoveValue(args[0], quantityArg(args[1]))
			c.diagnose("remove", err)
			if err == nil {
				c.save(store)
			}
			return nil
		},
	}
}

func (c *cli) qtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qty ITEM",
		Short: "Print the quantity of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.openStore(false)
			q, ok := store.Qty(args[0])
			printQty(cmd.OutOrStdout(), args[0], q, ok)
			return nil
		},
	}
}

func (c *cli) lowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "low",
		Short: "List items below the low-stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := c.threshold(cmd)
			if err != nil {
				return err
			}
			store := c.openStore(false)
			printLow(cmd.OutOrStdout(), store.LowItems(threshold))
			return nil
		},
	}
	cmd.Flags().Float64("threshold", float64(inventory.DefaultLowThreshold), "Report items strictly below this quantity (default from low_threshold)")
	return cmd
}

func (c *cli) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every item and its quantity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := c.openStore(false)
			return store.Report(cmd.OutOrStdout())
		},
	}
}

func (c *cli) initConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the effective configuration to the --config file",
		Long: `Writes the configuration currently in effect (defaults, existing file, environment
and --data) to the file named by --config. An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite it", c.configPath)
			}
			if err := c.cfg.Save(c.configPath); err != nil {
				return err
			}
			c.logger.Info("Configuration written", zap.String("path", c.configPath))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stocktrack version",
		Args:  cobra.NoArgs,
		// version needs neither configuration nor a logger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stocktrack version %s\n", version.Version())
		},
	}
}

// execute runs s against store, printing lookups and logging every failed step.
func (c *cli) execute(out io.Writer, s *script.Script, store *inventory.Store, showJournal bool) {
	journal := inventory.NewJournal()
	for _, res := range s.Run(store, journal, inventory.Quantity(c.cfg.LowThreshold)) {
		if res.Err != nil {
			c.logger.Warn(inventory.Describe(res.Step.Op, res.Err),
				zap.Int("step", res.Index),
				zap.String("op", res.Step.Op),
				zap.Stringer("outcome", res.Outcome()))
			continue
		}
		switch res.Step.Op {
		case script.OpQty:
			printQty(out, fmt.Sprint(res.Step.Item), res.Qty, res.Found)
		case script.OpLow:
			printLow(out, res.Low)
		case script.OpReport:
			fmt.Fprint(out, res.Report)
		case script.OpReset:
			c.logger.Info("Inventory reset", zap.Int("step", res.Index))
		}
	}
	if showJournal {
		for _, e := range journal.Entries() {
			fmt.Fprintln(out, e)
			c.logger.Debug("journal entry",
				zap.String("entry", e.ID),
				zap.String("item", e.Item),
				zap.Stringer("qty", e.Qty))
		}
	}
}

// quantityArg turns a command-line quantity into a number, leaving anything unparsable as text
// so validation rejects it with the usual diagnostic.
func quantityArg(raw string) any {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f
	}
	return raw
}

func printQty(out io.Writer, item string, q inventory.Quantity, found bool) {
	if !found {
		fmt.Fprintf(out, "%s stock: none\n", item)
		return
	}
	fmt.Fprintf(out, "%s stock: %s\n", item, q)
}

func printLow(out io.Writer, low []string) {
	if len(low) == 0 {
		fmt.Fprintln(out, "Low items: none")
		return
	}
	fmt.Fprintf(out, "Low items: %s\n", strings.Join(low, ", "))
}
