package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "licbundle",
		Short:         "Bundle the license texts of third-party dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log scoring and discovery details")

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)

	root.AddCommand(newBundleCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newAuthCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
