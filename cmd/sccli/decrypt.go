package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

var (
	decryptSchemeName string
	decryptParamSet   int
	decryptPrivPath   string
	decryptInPath     string
	decryptOutPath    string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt --in with --priv, writing plaintext to --out",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		name := decryptSchemeName
		if name == "" {
			name = cfg.Scheme
		}
		kind, err := resolveScheme(name)
		if err != nil {
			return err
		}

		priv, err := os.ReadFile(decryptPrivPath)
		if err != nil {
			return fmt.Errorf("sccli: read private key: %w", err)
		}
		ciphertext, err := os.ReadFile(decryptInPath)
		if err != nil {
			return fmt.Errorf("sccli: read ciphertext: %w", err)
		}

		inst, err := capi.Create(kind, decryptParamSet, nil)
		if err != nil {
			return fmt.Errorf("sccli: create %s: %w", kind, err)
		}
		defer capi.Destroy(inst)

		if err := scheme.PrivateKeyLoad(inst, priv); err != nil {
			return fmt.Errorf("sccli: load private key: %w", err)
		}

		pt, err := scheme.Decrypt(inst, ciphertext)
		if err != nil {
			return fmt.Errorf("sccli: decrypt: %w", err)
		}

		if err := os.WriteFile(decryptOutPath, pt, 0o644); err != nil {
			return fmt.Errorf("sccli: write plaintext: %w", err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", decryptOutPath, len(pt))
		return nil
	},
}

func init() {
	decryptCmd.Flags().StringVar(&decryptSchemeName, "scheme", "", "scheme name (default: config file's scheme)")
	decryptCmd.Flags().IntVar(&decryptParamSet, "param-set", 0, "parameter set index")
	decryptCmd.Flags().StringVar(&decryptPrivPath, "priv", "private.key", "private key file")
	decryptCmd.Flags().StringVar(&decryptInPath, "in", "", "ciphertext input file")
	decryptCmd.Flags().StringVar(&decryptOutPath, "out", "plaintext.bin", "output path for the plaintext")
	decryptCmd.MarkFlagRequired("in")
}
