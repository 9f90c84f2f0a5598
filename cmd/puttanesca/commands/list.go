package commands

import (
	"puttanesca/internal/hunters"
	"puttanesca/internal/processors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the available hunters and processors.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		huntersTable := newTable(cmd.OutOrStdout())
		huntersTable.SetTitle("Hunters")
		huntersTable.AppendHeader(table.Row{"Key", "Name"})
		for _, info := range hunters.Available() {
			huntersTable.AppendRow(table.Row{info.Key, info.Name})
		}
		huntersTable.Render()

		processorsTable := newTable(cmd.OutOrStdout())
		processorsTable.SetTitle("Processors")
		processorsTable.AppendHeader(table.Row{"Spec", "Name"})
		for _, info := range processors.Available() {
			processorsTable.AppendRow(table.Row{info.Spec, info.Name})
		}
		processorsTable.Render()
	},
}
