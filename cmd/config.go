package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/netsniff/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after merging defaults, the config file and
NETSNIFF_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig(configFile, cmd.OutOrStdout())
	},
}

func runConfig(path string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	data, err := config.Dump(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, string(data))
	return err
}
