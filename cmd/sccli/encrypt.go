package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

var (
	encryptSchemeName string
	encryptParamSet   int
	encryptPubPath    string
	encryptInPath     string
	encryptOutPath    string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt --in under --pub, writing ciphertext to --out",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		name := encryptSchemeName
		if name == "" {
			name = cfg.Scheme
		}
		kind, err := resolveScheme(name)
		if err != nil {
			return err
		}

		pub, err := os.ReadFile(encryptPubPath)
		if err != nil {
			return fmt.Errorf("sccli: read public key: %w", err)
		}
		plaintext, err := os.ReadFile(encryptInPath)
		if err != nil {
			return fmt.Errorf("sccli: read input: %w", err)
		}

		inst, err := capi.Create(kind, encryptParamSet, nil)
		if err != nil {
			return fmt.Errorf("sccli: create %s: %w", kind, err)
		}
		defer capi.Destroy(inst)

		if err := scheme.PublicKeyLoad(inst, pub); err != nil {
			return fmt.Errorf("sccli: load public key: %w", err)
		}

		ct, err := scheme.Encrypt(inst, plaintext)
		if err != nil {
			return fmt.Errorf("sccli: encrypt: %w", err)
		}

		if err := os.WriteFile(encryptOutPath, ct, 0o644); err != nil {
			return fmt.Errorf("sccli: write ciphertext: %w", err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", encryptOutPath, len(ct))
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVar(&encryptSchemeName, "scheme", "", "scheme name (default: config file's scheme)")
	encryptCmd.Flags().IntVar(&encryptParamSet, "param-set", 0, "parameter set index")
	encryptCmd.Flags().StringVar(&encryptPubPath, "pub", "public.key", "public key file")
	encryptCmd.Flags().StringVar(&encryptInPath, "in", "", "plaintext input file")
	encryptCmd.Flags().StringVar(&encryptOutPath, "out", "ciphertext.bin", "output path for the ciphertext")
	encryptCmd.MarkFlagRequired("in")
}
