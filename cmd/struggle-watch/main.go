// Command struggle-watch runs the struggle engine against a real browser
// page, or validates pipeline files.
package main

import (
	"os"

	"github.com/AccelByte/extend-struggle-engine/pkg/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "struggle-watch",
		Short:         "Watch a browser page for user struggle",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			common.SetupLogging(logLevel, false)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newWatchCmd())
	root.AddCommand(newValidateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
