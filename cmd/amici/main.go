// main.go sets up the amici command-line interface with cobra: the root
// command runs the interactive console, "config init" writes a default
// configuration file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/theflywheel/table/internal/config"
	"github.com/theflywheel/table/internal/console"
	"github.com/theflywheel/table/internal/logging"
	"github.com/theflywheel/table/internal/network"
)

var version = "dev" // set by the linker

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree on top of fs, so tests can run it
// against an in-memory filesystem.
func newRootCmd(fs afero.Fs) *cobra.Command {
	var (
		cfgFile string
		script  string
		cfg     config.Config
	)

	cmd := &cobra.Command{
		Use:   "amici",
		Short: "amici is a tiny social network console.",
		Long: `amici keeps people and their friendships in memory and reads
commands from standard input (or from a script file):

  add first-name last-name handle
  friend handle1 handle2
  unfriend handle1 handle2
  print handle
  size handle
  stats
  init
  dump
  quit`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		// Only the root command needs the config; "config init" must keep
		// working when the existing file does not parse.
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(fs, cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			return logging.SetLevel(cfg.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if script != "" {
				f, err := fs.Open(script)
				if err != nil {
					return errors.Wrap(err, "open script")
				}
				defer f.Close()
				logging.Infof("reading commands from %s", script)
				in = f
			}

			net := network.New(logging.L)
			defer net.Close()

			c := console.New(net, cmd.OutOrStdout(), cmd.ErrOrStderr(), console.Options{
				Prompt:     cfg.Prompt,
				DumpOnQuit: cfg.DumpOnQuit,
			})
			return c.Run(in)
		},
	}

	d := config.Default()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/amici/amici.yaml)")
	cmd.Flags().StringVarP(&script, "script", "s", "", "read commands from this file instead of stdin")
	cmd.Flags().String("prompt", d.Prompt, "prompt printed before each command")
	cmd.Flags().String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().Bool("dump-on-quit", d.DumpOnQuit, "dump the handle table when the session ends")

	cmd.AddCommand(newConfigCmd(fs))
	return cmd
}

func newConfigCmd(fs afero.Fs) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the amici configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			force, _ := cmd.Flags().GetBool("force")
			if exists, err := afero.Exists(fs, path); err != nil {
				return errors.Wrap(err, "stat config")
			} else if exists && !force {
				return errors.Errorf("%s already exists (use --force to overwrite)", path)
			} else if exists {
				logging.Warnf("overwriting %s", path)
			}

			if err := config.Write(fs, path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
