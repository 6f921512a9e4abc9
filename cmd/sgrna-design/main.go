// Package main provides the sgrna-design command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sgrna-design",
		Short: "Design CRISPRi guide RNAs against a bacterial chromosome",
		Long: `sgrna-design enumerates every PAM-adjacent guide candidate on both
strands of a circular genome, annotates each with overlapping gene context,
scores genomic uniqueness, and emits a ranked guide table.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newDesignCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sgrna-design version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig reads ~/.sgrna-design.yaml when present.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.SetConfigFile(filepath.Join(home, ".sgrna-design.yaml"))
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig() // missing config file is fine
}
