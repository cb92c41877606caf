// The toolup command installs a Rust toolchain and the Helix editor into a
// caller-specified directory and persists the user environment so the tools
// are available in new terminal sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crafted-tech/toolup"
	"github.com/crafted-tech/toolup/platform"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "toolup",
		Short:         "Install developer tools for the current user",
		Long:          "toolup installs a Rust toolchain and the Helix editor into a directory of your choice,\nthen persists PATH and home-directory variables so new terminals pick them up.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML file overriding download locations")

	root.AddCommand(newToolchainCmd(&configPath))
	root.AddCommand(newEditorCmd(&configPath))
	return root
}

func newToolchainCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "toolchain <install-dir>",
		Short: "Install the Rust toolchain via rustup-init",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := toolup.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			return run(toolup.ToolchainProduct(args[0], cfg))
		},
	}
}

func newEditorCmd(configPath *string) *cobra.Command {
	var force, shortcut bool

	cmd := &cobra.Command{
		Use:   "editor <install-dir>",
		Short: "Install the latest Helix editor release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := toolup.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			p := toolup.EditorProduct(args[0], cfg)
			p.Force = force
			p.Shortcut = shortcut
			return run(p)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if the installed version is current")
	cmd.Flags().BoolVar(&shortcut, "shortcut", false, "create a Start Menu shortcut")
	return cmd
}

func run(p toolup.Product) error {
	store, err := platform.UserEnv()
	if err != nil {
		return err
	}

	log, err := toolup.NewLogger("toolup")
	if err != nil {
		return err
	}
	defer log.Close()

	if err := toolup.Run(p, store, log); err != nil {
		return fmt.Errorf("%w (log: %s)", err, log.Path())
	}

	fmt.Printf("Done. Open a new terminal to pick up the updated environment.\n")
	return nil
}
