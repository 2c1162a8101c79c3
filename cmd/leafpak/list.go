package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List container entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	r, err := openReader()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	entries, err := r.Entries()
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"Name", "Size", "Encoded", "Offset"})
	for _, e := range entries {
		tw.Append([]string{
			e.Name,
			strconv.FormatUint(uint64(e.Size), 10),
			strconv.FormatBool(e.Encoded),
			strconv.FormatUint(uint64(e.Offset), 10),
		})
	}
	tw.Render()

	logger.Debug("listed container", zap.Int("entries", len(entries)))

	return nil
}
