package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

var (
	signSchemeName string
	signParamSet   int
	signPrivPath   string
	signMsgPath    string
	signSigPath    string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign --msg with --priv, writing the signature to --sig",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		name := signSchemeName
		if name == "" {
			name = cfg.Scheme
		}
		kind, err := resolveScheme(name)
		if err != nil {
			return err
		}

		priv, err := os.ReadFile(signPrivPath)
		if err != nil {
			return fmt.Errorf("sccli: read private key: %w", err)
		}
		msg, err := os.ReadFile(signMsgPath)
		if err != nil {
			return fmt.Errorf("sccli: read message: %w", err)
		}

		inst, err := capi.Create(kind, signParamSet, nil)
		if err != nil {
			return fmt.Errorf("sccli: create %s: %w", kind, err)
		}
		defer capi.Destroy(inst)

		if err := scheme.PrivateKeyLoad(inst, priv); err != nil {
			return fmt.Errorf("sccli: load private key: %w", err)
		}

		sig, err := scheme.Sign(inst, msg)
		if err != nil {
			return fmt.Errorf("sccli: sign: %w", err)
		}

		if err := os.WriteFile(signSigPath, sig, 0o644); err != nil {
			return fmt.Errorf("sccli: write signature: %w", err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", signSigPath, len(sig))
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signSchemeName, "scheme", "", "scheme name (default: config file's scheme)")
	signCmd.Flags().IntVar(&signParamSet, "param-set", 0, "parameter set index")
	signCmd.Flags().StringVar(&signPrivPath, "priv", "private.key", "private key file")
	signCmd.Flags().StringVar(&signMsgPath, "msg", "", "message file to sign")
	signCmd.Flags().StringVar(&signSigPath, "sig", "signature.bin", "output path for the signature")
	signCmd.MarkFlagRequired("msg")
}
