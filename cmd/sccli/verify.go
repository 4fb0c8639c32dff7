package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safecrypto/libsafecrypto-sub000/capi"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

var (
	verifySchemeName string
	verifyParamSet   int
	verifyPubPath    string
	verifyMsgPath    string
	verifySigPath    string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify --sig over --msg against --pub",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		name := verifySchemeName
		if name == "" {
			name = cfg.Scheme
		}
		kind, err := resolveScheme(name)
		if err != nil {
			return err
		}

		pub, err := os.ReadFile(verifyPubPath)
		if err != nil {
			return fmt.Errorf("sccli: read public key: %w", err)
		}
		msg, err := os.ReadFile(verifyMsgPath)
		if err != nil {
			return fmt.Errorf("sccli: read message: %w", err)
		}
		sig, err := os.ReadFile(verifySigPath)
		if err != nil {
			return fmt.Errorf("sccli: read signature: %w", err)
		}

		inst, err := capi.Create(kind, verifyParamSet, nil)
		if err != nil {
			return fmt.Errorf("sccli: create %s: %w", kind, err)
		}
		defer capi.Destroy(inst)

		if err := scheme.PublicKeyLoad(inst, pub); err != nil {
			return fmt.Errorf("sccli: load public key: %w", err)
		}

		if err := scheme.Verify(inst, msg, sig); err != nil {
			return fmt.Errorf("sccli: verify: %w", err)
		}
		fmt.Println("signature OK")
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifySchemeName, "scheme", "", "scheme name (default: config file's scheme)")
	verifyCmd.Flags().IntVar(&verifyParamSet, "param-set", 0, "parameter set index")
	verifyCmd.Flags().StringVar(&verifyPubPath, "pub", "public.key", "public key file")
	verifyCmd.Flags().StringVar(&verifyMsgPath, "msg", "", "message file that was signed")
	verifyCmd.Flags().StringVar(&verifySigPath, "sig", "signature.bin", "signature file")
	verifyCmd.MarkFlagRequired("msg")
}
