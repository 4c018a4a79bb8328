package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the tracked stages in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stages, err := cfg.StageList()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(stages))
			for i, s := range stages {
				rows = append(rows, []string{strconv.Itoa(i + 1), string(s.Key), s.DisplayName})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Key", "Name"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
}
