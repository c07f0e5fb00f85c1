package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(chatsCmd)
}

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List every chat in the message store",
	Long:  "List every chat with its row id, identifier, display name, participants and last message date.",
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
		fmt.Fprintln(writer, "ROWID\tIDENTIFIER\tNAME\tPARTICIPANTS\tLAST MESSAGE")
		for _, chat := range dir.Chats() {
			participants := make([]string, 0, len(chat.Participants))
			for _, handleID := range chat.Participants {
				participants = append(participants, dir.HandleName(handleID))
			}

			lastMessage := ""
			if !chat.LastMessageAt.IsZero() {
				lastMessage = chat.LastMessageAt.Format("2006-01-02 15:04:05")
			}

			fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n",
				chat.RowID, chat.Identifier, chat.DisplayName,
				strings.Join(participants, ", "), lastMessage)
		}
		return writer.Flush()
	},
}
