package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tOgg1/chatlog/internal/archive"
	"github.com/tOgg1/chatlog/internal/media"
)

var (
	statsName    string
	statsHandles []string
	statsChat    int64
	statsStart   string
	statsEnd     string
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsName, "name", "", "contact name from the config contact book")
	statsCmd.Flags().StringSliceVar(&statsHandles, "handle", nil, "handle identifier (phone number or email), repeatable")
	statsCmd.Flags().Int64Var(&statsChat, "chat", 0, "chat row id")
	statsCmd.Flags().StringVar(&statsStart, "start", "", `only messages at or after this time ("YYYY-MM-DD HH:MM:SS")`)
	statsCmd.Flags().StringVar(&statsEnd, "end", "", `only messages at or before this time ("YYYY-MM-DD HH:MM:SS")`)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Per-message statistics as TSV",
	Long: `Emit one tab-separated line per message (sender, date, character
count, word count, text), suitable for a spreadsheet.`,
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

		scope, _, err := buildScope(dir, statsName, statsHandles, statsChat)
		if err != nil {
			return err
		}

		window := cfg.Query
		if statsStart != "" {
			window.Start = statsStart
		}
		if statsEnd != "" {
			window.End = statsEnd
		}
		start, end, err := window.Window()
		if err != nil {
			return err
		}

		// Attachments play no part in counting.
		library, err := media.LoadLibrary(ctx, database, media.Options{}, true)
		if err != nil {
			return err
		}

		collection, err := archive.NewLoader(database, dir, library).Load(ctx, scope, archive.LoadOptions{
			Start: start,
			End:   end,
		})
		if err != nil {
			return err
		}

		writer := bufio.NewWriter(os.Stdout)
		fmt.Fprintln(writer, "name\tdate\tcharacters\twords\ttext")
		for _, message := range collection.Sorted() {
			name := cfg.Display.Me
			if !message.IsFromMe {
				name = dir.HandleName(message.HandleID)
			}
			text := flattenText(message.Text)
			fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\n",
				name,
				message.Date.Format("2006-01-02 15:04:05"),
				len([]rune(message.Text)),
				len(strings.Fields(message.Text)),
				text)
		}
		return writer.Flush()
	},
}

// flattenText keeps the TSV one line per message.
func flattenText(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, text)
}
