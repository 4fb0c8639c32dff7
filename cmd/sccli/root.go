package main

import (
	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:     "sccli",
	Short:   "Command-line client over the lattice scheme dispatch table",
	Version: capi.VersionString(),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file (default scheme)")
	rootCmd.AddCommand(schemesCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
}
