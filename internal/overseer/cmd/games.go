package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"laptudirm.com/x/overseer/pkg/records"
)

// overseer games
func Games() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List recently recorded games",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("db")
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := records.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			found, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(found) == 0 {
				fmt.Println("No games recorded.")
				return nil
			}

			for _, record := range found {
				fmt.Printf("%s  %-7s  %-22s  %s vs %s  (%d moves)\n",
					record.EndedAt.Local().Format("2006-01-02 15:04"),
					record.Score, record.Outcome,
					record.White, record.Black, len(record.Moves))
			}

			return nil
		},
	}

	cmd.Flags().String("db", records.DefaultPath(), "path of the games database")
	cmd.Flags().Int("limit", 20, "maximum number of games to list")

	return cmd
}
