package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/acadops/secondmark/config"
	"github.com/acadops/secondmark/infra/logger"
	"github.com/acadops/secondmark/infra/runlog"
	"github.com/acadops/secondmark/pkg/export"
)

var reportRunID string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the load report of a persisted allocation run",
	RunE:  printReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run ID to report on (default: latest)")
	rootCmd.AddCommand(reportCmd)
}

func printReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.RunLog.Enabled {
		return fmt.Errorf("runlog is disabled in the configuration")
	}

	logg := logger.New("report-command")
	var store runlog.Store
	switch cfg.RunLog.Backend {
	case "sqlite":
		store, err = runlog.NewSQLiteStore(cfg.RunLog.Path)
	default:
		store, err = runlog.NewJSONLStore(cfg.RunLog.Path)
	}
	if err != nil {
		return fmt.Errorf("open runlog store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Errorf("store close: %v", err)
		}
	}()

	records, err := store.Query(ctx, runlog.RunQuery{RunID: reportRunID})
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no matching allocation runs")
	}
	rec := records[len(records)-1]
	logg.Infof("run %s from %s: %d projects", rec.RunID, rec.Timestamp.Format("2006-01-02 15:04:05"), len(rec.Assignments))
	return export.WriteLoadsCSV(os.Stdout, rec.Loads)
}
