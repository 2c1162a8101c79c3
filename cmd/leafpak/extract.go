package main

import (
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/leafpak"
)

const (
	nameFlag       = "name"
	outputFlag     = "output"
	outputNameFlag = "output-name"
	workersFlag    = "workers"
	bestEffortFlag = "best-effort"
	noProgressFlag = "no-progress"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract one entry or the whole container",
	Args:  cobra.NoArgs,
	RunE:  runExtract,
}

func init() {
	fl := extractCmd.Flags()
	fl.StringP(nameFlag, "n", "", "Extract a single entry by name")
	fl.StringP(outputFlag, "o", ".", "Output directory")
	fl.String(outputNameFlag, "", "Output filename for single-entry extraction")
	fl.Int(workersFlag, 1, "Concurrent extraction workers")
	fl.Bool(bestEffortFlag, false, "Keep extracting past corrupt entries")
	fl.Bool(noProgressFlag, false, "Do not show progress bar")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	r, err := openReader()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	outDir, _ := cmd.Flags().GetString(outputFlag)
	if name, _ := cmd.Flags().GetString(nameFlag); name != "" {
		return extractOne(cmd, r, name, outDir)
	}

	return extractAll(cmd, r, outDir)
}

func extractOne(cmd *cobra.Command, r *leafpak.Reader, name, outDir string) error {
	data, err := r.Extract(name)
	if err != nil {
		return err
	}

	outName, _ := cmd.Flags().GetString(outputNameFlag)
	if outName == "" {
		outName = name
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return err
	}

	dst := filepath.Join(outDir, outName)
	if err := os.WriteFile(dst, data, 0o640); err != nil {
		return err
	}

	logger.Info("extracted entry",
		zap.String("name", name),
		zap.String("path", dst),
		zap.Int("bytes", len(data)))

	return nil
}

func extractAll(cmd *cobra.Command, r *leafpak.Reader, outDir string) error {
	entries, err := r.Entries()
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt(workersFlag)
	bestEffort, _ := cmd.Flags().GetBool(bestEffortFlag)
	noProgress, _ := cmd.Flags().GetBool(noProgressFlag)

	opts := leafpak.ExtractOptions{
		Workers:    workers,
		BestEffort: bestEffort,
	}

	var bar *pb.ProgressBar
	if !noProgress {
		bar = pb.New(len(entries))
		bar.Output = cmd.OutOrStdout()
		bar.Start()
		opts.OnEntryDone = func(string) { bar.Increment() }
	}

	err = r.ExtractTo(cmd.Context(), outDir, opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	logger.Info("extracted container",
		zap.Int("entries", len(entries)),
		zap.String("dir", outDir))

	return nil
}
