package main

import (
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/spf13/cobra"
)

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <cert-file>",
		Short: "Print the SHA-256 fingerprint of a signing certificate (PEM or DER)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read certificate: %w", err)
			}
			return printFingerprints(cmd.OutOrStdout(), data)
		},
	}
}

// printFingerprints prints one fingerprint per certificate of a PEM bundle, or of the data itself when it is not PEM.
func printFingerprints(w io.Writer, data []byte) error {
	var certificates [][]byte
	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			certificates = append(certificates, block.Bytes)
		}
	}
	if len(certificates) == 0 {
		certificates = [][]byte{data}
	}

	for _, certificate := range certificates {
		if _, err := fmt.Fprintln(w, callerauth.FingerprintOf(certificate)); err != nil {
			return err
		}
	}
	return nil
}
