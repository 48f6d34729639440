package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/spf13/cobra"
)

func newIdentityCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "identity <package>",
		Short: "Show the signing certificates of a package and whether it is a trusted browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stderr)

			infra, err := openComponents(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer infra.close()

			authorizer, err := newAuthorizer(cfg, infra.registry, logger)
			if err != nil {
				return err
			}
			caller, err := authorizer.Identify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCaller(cmd.OutOrStdout(), caller)
		},
	}
}

func printCaller(w io.Writer, caller callerauth.Caller) error {
	if _, err := fmt.Fprintf(w, "package:    %s\n", caller.Identity.PackageName); err != nil {
		return err
	}
	if len(caller.Identity.Signatures) == 0 {
		if _, err := fmt.Fprintln(w, "signatures: none (package not installed)"); err != nil {
			return err
		}
	}
	for i, signature := range caller.Identity.Signatures {
		if _, err := fmt.Fprintf(w, "signature %d: %s\n", i, callerauth.FingerprintOf(signature)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "trusted:    %t\n", caller.Authorized)
	return err
}
