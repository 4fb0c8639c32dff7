package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
)

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the registered scheme kinds by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("signature:")
		for _, k := range capi.SignatureSchemes() {
			fmt.Printf("  %s\n", k)
		}
		fmt.Println("encryption:")
		for _, k := range capi.EncryptionSchemes() {
			fmt.Printf("  %s\n", k)
		}
		fmt.Println("kem:")
		for _, k := range capi.KEMSchemes() {
			fmt.Printf("  %s\n", k)
		}
		fmt.Println("ibe:")
		for _, k := range capi.IBESchemes() {
			fmt.Printf("  %s\n", k)
		}
		return nil
	},
}
