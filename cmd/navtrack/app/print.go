package app

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sfiharvest/navtrack/cmd/navtrack/app/options"
)

const redacted = "<redacted>"

func newConfigCommand(opts *options.NavtrackOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(redact(opts))
		},
	}
}

// redact returns a copy of opts with credentials masked.
func redact(opts *options.NavtrackOptions) *options.NavtrackOptions {
	out := *opts

	mqtt := *opts.MqttOptions
	if mqtt.Password != "" {
		mqtt.Password = redacted
	}
	out.MqttOptions = &mqtt

	s3 := *opts.S3Options
	if s3.SecretAccessKey != "" {
		s3.SecretAccessKey = redacted
	}
	out.S3Options = &s3

	return &out
}
