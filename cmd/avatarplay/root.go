package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "avatarplay",
		Short:         "Retarget and play back sign motion on a humanoid rig",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFlag, "config", "c", "", "Configuration file path (.json or .toml)")
	pf.StringVar(&ctx.flags.Rig, "rig", "", `Rig JSON file, or "humanoid" for the built-in rig`)
	pf.StringVar(&ctx.flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&ctx.flags.LogFormat, "log-format", "", "Log format (console, json, auto)")

	rootCmd.AddCommand(newPlayCommand(ctx))
	rootCmd.AddCommand(newBonesCommand(ctx))
	rootCmd.AddCommand(newSampleCommand(ctx))

	return rootCmd
}
