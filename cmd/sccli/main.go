// Command sccli is a thin demonstration client over the capi surface: it
// exists to exercise Create/KeyGen/Sign/Verify/Encrypt/Decrypt from the
// command line the way a bindings consumer would, not as a production key
// management tool.
package main

import (
	"fmt"
	"os"

	_ "github.com/safecrypto/libsafecrypto-sub000/bliss"
	_ "github.com/safecrypto/libsafecrypto-sub000/mlwe"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
