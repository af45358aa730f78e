package app

import (
	"context"
	"flag"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/component-base/cli/globalflag"

	"github.com/sfiharvest/navtrack/cmd/navtrack/app/options"
	"github.com/sfiharvest/navtrack/pkg/log"
)

const commandName = "navtrack"

func NewNavtrackCommand(ctx context.Context) *cobra.Command {
	opts := options.NewNavtrackOptions()
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   commandName,
		Short: "Track marine vehicles from their navigation reports",
		Long: `navtrack subscribes to the vehicle bus, keeps the tracks of an allow-list of
vehicles and writes them as GeoJSON for map display and as rotating CSV
archives.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cfgFile, cmd.Flags(), opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, v, opts)
		},
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	fs := cmd.PersistentFlags()
	fs.StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (yaml, json or toml).")
	namedfs := opts.Flags()
	globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run navtrack (the default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(ctx, v, opts)
			},
		},
		newStatusCommand(opts),
		newConfigCommand(opts),
	)

	return cmd
}

func run(ctx context.Context, v *viper.Viper, opts *options.NavtrackOptions) error {
	log.Init(opts.Log)

	cfg, err := opts.Config()
	if err != nil {
		log.Error(err, "invalid configuration")
		return err
	}

	srv, err := cfg.NewServer()
	if err != nil {
		log.Error(err, "failed to new navtrack server")
		return err
	}

	watchAliases(v, srv)

	if err := srv.Run(ctx); err != nil {
		log.Error(err, "navtrack stopped with error")
		return err
	}
	return nil
}
