package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pitchgrid/pitchgrid/internal/config"
)

// showConfigCmd represents the show-config command
var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the effective analysis tunables as YAML",
	RunE:  runShowConfig,
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg.Tunables)
	if err != nil {
		return fmt.Errorf("failed to render tunables: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
