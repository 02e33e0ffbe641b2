package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var opts options

	// run boots the app around fn. Panics are reported before they crash the command.
	run := func(watch bool, fn func(*app, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := start(opts, watch)
			if err != nil {
				return err
			}
			defer a.stop()
			defer a.container.Exceptions().Recover()

			return fn(a, args)
		}
	}

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Starts interactive shell",
		Long: `Starts the interactive cart shell
		with list, add, inc, dec and watch commands.
        `,
		Args: cobra.NoArgs,
		RunE: run(true, func(a *app, args []string) error {
			a.shell.Run(context.Background())
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the saved cart",
		Args:  cobra.NoArgs,
		RunE: run(false, func(a *app, args []string) error {
			a.shell.List(os.Stdout)
			return nil
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add <id|-> <title> <image> <price>",
		Short: "Adds a product to the cart",
		Long: `Adds a product with quantity 1. A product
		already in the cart is left as is, use inc to raise it.
        `,
		Args: cobra.ExactArgs(4),
		RunE: run(false, func(a *app, args []string) error {
			return a.shell.Add(context.Background(), os.Stdout, args)
		}),
	}

	incCmd := &cobra.Command{
		Use:   "inc <id>",
		Short: "Increments the quantity of a cart item",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, args []string) error {
			return a.shell.Increment(context.Background(), os.Stdout, args)
		}),
	}

	decCmd := &cobra.Command{
		Use:   "dec <id>",
		Short: "Decrements the quantity of a cart item, removing it at zero",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, args []string) error {
			return a.shell.Decrement(context.Background(), os.Stdout, args)
		}),
	}

	var rootCmd = &cobra.Command{Use: "gomarketplace", SilenceUsage: true, SilenceErrors: true}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (.hjson, .json, .toml or .hcl)")
	rootCmd.PersistentFlags().StringArrayVar(&opts.overrides, "set", nil, "override a config value, e.g. --set storage.driver=memory")
	rootCmd.AddCommand(shellCmd, listCmd, addCmd, incCmd, decCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
