package main

import (
	"fmt"

	"github.com/AccelByte/extend-struggle-engine/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config [file...]",
		Short: "Validate pipeline files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				p, err := pipeline.Load(path)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				cfg := p.Config()
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d detectors, %d actions)\n", path, len(cfg.Detectors), len(cfg.Actions))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
