// Command leafpak lists, extracts and creates Leafpak game-asset containers.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/woozymasta/leafpak"
)

const (
	pakFlag         = "pak"
	verboseFlag     = "verbose"
	maxUnpackedFlag = "max-unpacked"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:           "leafpak",
	Short:         "Leafpak game-asset container tool",
	Long:          "List, extract and create Leafpak containers (LZSS-compressed game assets).",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return setupLogger()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP(pakFlag, "p", "", "Path to the container file")
	pf.Bool(verboseFlag, false, "Enable debug logging")
	pf.Int(maxUnpackedFlag, leafpak.DefaultMaxUnpacked, "Safety ceiling for a decoded entry, bytes")

	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(listCmd, extractCmd, createCmd)
}

// initConfig lets every persistent flag be set via LEAFPAK_* environment
// variables (dashes become underscores, e.g. LEAFPAK_MAX_UNPACKED).
func initConfig() {
	viper.SetEnvPrefix("LEAFPAK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

func setupLogger() error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if viper.GetBool(verboseFlag) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l

	return nil
}

// openReader opens the container named by --pak / LEAFPAK_PAK.
func openReader() (*leafpak.Reader, error) {
	path := viper.GetString(pakFlag)
	if path == "" {
		return nil, errors.New("container path not set, use --pak or LEAFPAK_PAK")
	}

	return leafpak.OpenWithOptions(path, leafpak.ReaderOptions{
		MaxUnpackedSize: viper.GetInt(maxUnpackedFlag),
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
