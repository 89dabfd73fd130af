package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fraglog/fraglog-go/pkg/fraglog/event"
)

var causesCmd = &cobra.Command{
	Use:   "causes",
	Short: "List the known means of death",
	Long: `List every means of death a Kill line may name, with its ordinal.
Reports list kills_by_means in this order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header("Ordinal", "Means of death")
		for _, c := range event.Causes() {
			if err := table.Append(strconv.Itoa(int(c)), c.Keyword()); err != nil {
				return err
			}
		}
		return table.Render()
	},
}
