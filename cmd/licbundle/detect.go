package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsablic/licbundle/internal/license"
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect DIR",
		Short: "Guess the license of a directory from its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			d := license.NewDetector()
			w := cmd.OutOrStdout()

			matches := d.Matches(args[0])
			if len(matches) == 0 {
				return fmt.Errorf("no license detected in %s", args[0])
			}
			if !all {
				matches = matches[:1]
			}
			for _, m := range matches {
				fmt.Fprintf(w, "%s\t%.2f\t%s\n", m.ID, m.Confidence, m.File)
			}
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "List every match above the detection threshold")
	return cmd
}
