package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"avatar-retarget/internal/skeleton"
	"avatar-retarget/internal/timeline"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var output string
	var prefix string

	cmd := &cobra.Command{
		Use:   "sample GLOSS...",
		Short: "Write a motion document for a gloss sentence using the built-in clips",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			gloss := strings.Join(args, " ")
			tl := timeline.NewSampler(prefix).Sentence(gloss)

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("sample: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := timeline.Encode(w, tl); err != nil {
				return fmt.Errorf("sample: %w", err)
			}
			logger.Info("motion document written", "gloss", gloss, "frames", tl.Len(), "output", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&prefix, "prefix", skeleton.DefaultPrefix, "Bone-name prefix for generated frames")
	return cmd
}
