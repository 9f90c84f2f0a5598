package commands

import (
	"fmt"

	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/harvest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	huntProcessor string
	huntCreate    bool
	huntConfig    string
	huntDumpHttp  string
	huntPrint     bool
)

func init() {
	huntCmd.Flags().StringVarP(&huntProcessor, "processor", "p", "console", "The processor that receives the matches (see `list`).")
	huntCmd.Flags().BoolVar(&huntCreate, "create", true, "Create the database file of a sqlite processor if it does not exist.")
	huntCmd.Flags().StringVar(&huntConfig, "config", harvest.DefaultConfigPath, "The configuration file.")
	huntCmd.Flags().StringVar(&huntDumpHttp, "dump-http", "", "Write every http exchange to this directory.")
	huntCmd.Flags().BoolVar(&huntPrint, "print", false, "Print the stored matches after a sqlite processor is done.")
	rootCmd.AddCommand(huntCmd)
}

var huntCmd = &cobra.Command{
	Use:   "hunt <hunter> [-p <processor>]",
	Short: "Finds matches with a hunter and hands them to a processor.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hunterKey := args[0]
		tel := telemetry.SlogAPI{}

		if huntPrint {
			_, err := harvest.StoredPath(huntProcessor)
			if err != nil {
				return withHint(err, hunterKey, huntProcessor)
			}
		}

		config, err := harvest.LoadConfig(huntConfig)
		if err != nil {
			return err
		}

		err = harvest.Run(cmd.Context(), hunterKey, huntProcessor, harvest.Options{
			Config:   config,
			Stdout:   cmd.OutOrStdout(),
			Create:   huntCreate,
			DumpHttp: huntDumpHttp,
			Tel:      tel,
		})
		if err != nil {
			return withHint(err, hunterKey, huntProcessor)
		}

		if !huntPrint {
			return nil
		}
		stored, err := harvest.Stored(cmd.Context(), huntProcessor, tel)
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Round", "Date", "Home", "Away", "Score"})
		for _, m := range stored {
			t.AppendRow(table.Row{
				m.MatchDay,
				m.MatchDate.String(),
				m.Team1,
				m.Team2,
				fmt.Sprintf("%s - %s", scoreText(m.Team1Score), scoreText(m.Team2Score)),
			})
		}
		t.Render()
		return nil
	},
}

func scoreText(score *int) string {
	if score == nil {
		return "?"
	}
	return fmt.Sprint(*score)
}
