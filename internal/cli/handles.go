package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(handlesCmd)
}

var handlesCmd = &cobra.Command{
	Use:   "handles",
	Short: "List every handle in the message store",
	Long:  "List every handle with its row id, identifier, service and resolved contact name.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		dir, err := loadDirectory(ctx, database)
		if err != nil {
			return err
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(writer, "ROWID\tIDENTIFIER\tSERVICE\tNAME")
		for _, handle := range dir.Handles() {
			fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", handle.RowID, handle.Number, handle.Service, handle.Name)
		}
		return writer.Flush()
	},
}
