package command

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"reviewhub/database"
	"reviewhub/internal/importer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dataDir string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Import every CSV file found in the data directory",
	Long: `Import the seed CSV files from --dir (IMPORT_DIR by default). Files that
are missing are skipped; rows keep their ids and foreign keys must point at
rows imported earlier in the same run.`,
	Example: "  importer run --dir ./static/data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dataDir == "" {
			dataDir = cfg.ImportDir
		}
		info, err := os.Stat(dataDir)
		if err != nil {
			return fmt.Errorf("data directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data directory: %s is not a directory", dataDir)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		logger.Info("starting import", "dir", dataDir)
		summary, err := importer.New(importer.NewGormStore(db), logger).Run(ctx, os.DirFS(dataDir))
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		printSummary(cmd, summary)
		return nil
	},
}

func printSummary(cmd *cobra.Command, s importer.Summary) {
	out := cmd.OutOrStdout()
	files := make([]string, 0, len(s.Counts))
	for f := range s.Counts {
		files = append(files, f)
	}
	sort.Strings(files)

	color.New(color.FgGreen, color.Bold).Fprintln(out, "Import complete")
	for _, f := range files {
		fmt.Fprintf(out, "  %-16s %d rows\n", f, s.Counts[f])
	}
	skipped := color.New(color.FgYellow)
	for _, f := range s.Skipped {
		skipped.Fprintf(out, "  %-16s skipped (not found)\n", f)
	}
	fmt.Fprintf(out, "  total            %d rows\n", s.Total())
}

func init() {
	runCmd.Flags().StringVarP(&dataDir, "dir", "d", "", "directory holding the CSV files (default IMPORT_DIR)")
	rootCmd.AddCommand(runCmd)
}
