// Package commands implements the headless nodegraft CLI. It drives the
// same session, engine and operator registry as the desktop shell.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nodegraft",
	Short: "Node graph editing toolkit",
	Long: `nodegraft - node graph editing toolkit

Build node trees from scripts, run graph-rewrite operators against saved
documents, and inspect the operator registry without the desktop shell.`,
	Run: nil,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.nodegraft.yaml)")
	rootCmd.PersistentFlags().String("doc", "", "document to load before running")
	rootCmd.PersistentFlags().String("save", "", "write the resulting document to this path")
	viper.BindPFlag("doc", rootCmd.PersistentFlags().Lookup("doc"))
	viper.BindPFlag("save", rootCmd.PersistentFlags().Lookup("save"))

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(opsCmd)
	rootCmd.AddCommand(runCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".nodegraft.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("nodegraft")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}
