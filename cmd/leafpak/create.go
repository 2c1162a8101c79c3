package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woozymasta/leafpak"
)

const inputFlag = "input"

var createCmd = &cobra.Command{
	Use:   "create <output.pak>",
	Short: "Create a container from a directory of files",
	Long:  "Create a container from a directory of files. Created entries are always stored raw.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringP(inputFlag, "i", ".", "Directory with files to pack")
}

func runCreate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString(inputFlag)

	if err := leafpak.PackDir(args[0], dir); err != nil {
		return err
	}

	logger.Info("created container",
		zap.String("path", args[0]),
		zap.String("input", dir))

	return nil
}
