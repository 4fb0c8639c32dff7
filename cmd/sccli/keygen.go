package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

var (
	keygenSchemeName string
	keygenParamSet   int
	keygenPubPath    string
	keygenPrivPath   string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a key pair and write it to --pub/--priv",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		name := keygenSchemeName
		if name == "" {
			name = cfg.Scheme
		}
		kind, err := resolveScheme(name)
		if err != nil {
			return err
		}

		inst, err := capi.Create(kind, keygenParamSet, nil)
		if err != nil {
			return fmt.Errorf("sccli: create %s: %w", kind, err)
		}
		defer capi.Destroy(inst)

		if err := capi.KeyGen(inst); err != nil {
			return fmt.Errorf("sccli: keygen: %w", err)
		}

		pub, err := scheme.PublicKeyEncode(inst)
		if err != nil {
			return fmt.Errorf("sccli: encode public key: %w", err)
		}
		priv, err := scheme.PrivateKeyEncode(inst)
		if err != nil {
			return fmt.Errorf("sccli: encode private key: %w", err)
		}

		if err := os.WriteFile(keygenPubPath, pub, 0o644); err != nil {
			return fmt.Errorf("sccli: write public key: %w", err)
		}
		if err := os.WriteFile(keygenPrivPath, priv, 0o600); err != nil {
			return fmt.Errorf("sccli: write private key: %w", err)
		}

		fmt.Printf("wrote %s (public, %d bytes) and %s (private, %d bytes)\n",
			keygenPubPath, len(pub), keygenPrivPath, len(priv))
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenSchemeName, "scheme", "", "scheme name, e.g. BLISS-B (default: config file's scheme)")
	keygenCmd.Flags().IntVar(&keygenParamSet, "param-set", 0, "parameter set index")
	keygenCmd.Flags().StringVar(&keygenPubPath, "pub", "public.key", "output path for the public key")
	keygenCmd.Flags().StringVar(&keygenPrivPath, "priv", "private.key", "output path for the private key")
}
