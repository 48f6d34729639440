package main

import (
	"github.com/bsv-blockchain/go-samplepay/pkg/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "samplepay",
		Short: "SamplePay payment app",
		Long: `SamplePay answers PAY and IS_READY_TO_PAY intents sent by trusted browsers,
drives the checkout and exchanges payment details updates with the browser.`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML configuration file")

	cmd.AddCommand(
		newServeCmd(opts),
		newFingerprintCmd(),
		newIdentityCmd(opts),
		newRegistryCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.Load(o.configPath)
}
