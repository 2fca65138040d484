package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stocktrack/pkg/inventory"
)

// watchDebounce batches the burst of events a single save produces.
const watchDebounce = 100 * time.Millisecond

func (c *cli) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the inventory file on every change and print low-stock items",
		Long: `Watches the inventory file and, after each change, reloads it and prints the
items below the low-stock threshold. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := c.threshold(cmd)
			if err != nil {
				return err
			}
			svc := inventory.NewService(inventory.NewStore(), c.cfg.GetQueueTimeout())
			defer svc.Close()
			return c.watch(cmd.Context(), svc, threshold, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64("threshold", float64(inventory.DefaultLowThreshold), "Report items strictly below this quantity (default from low_threshold)")
	return cmd
}

// watch runs the fsnotify loop until ctx is cancelled. The parent directory is watched so the
// file can be created, replaced by rename, or deleted while watching.
func (c *cli) watch(ctx context.Context, svc *inventory.Service, threshold inventory.Quantity, out io.Writer) error {
	target, err := filepath.Abs(c.cfg.DataPath)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(target)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	c.logger.Info("Watching inventory file", zap.String("path", target))

	if err := c.refresh(ctx, svc, threshold, out); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopped watching inventory file", zap.String("path", target))
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			c.logger.Debug("inventory file event", zap.String("op", event.Op.String()))
			pending = time.After(watchDebounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("file watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := c.refresh(ctx, svc, threshold, out); err != nil {
				return err
			}
		}
	}
}

// refresh reloads the file through svc and prints the low-stock list.
func (c *cli) refresh(ctx context.Context, svc *inventory.Service, threshold inventory.Quantity, out io.Writer) error {
	err := svc.Load(ctx, c.cfg.DataPath)
	if ctx.Err() != nil {
		return nil
	}
	c.diagnose("load", err)
	low, err := svc.LowItems(ctx, threshold)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	printLow(out, low)
	return nil
}
