package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tOgg1/chatlog/internal/archive"
	"github.com/tOgg1/chatlog/internal/config"
	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/directory"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/media"
	"github.com/tOgg1/chatlog/internal/models"
	"github.com/tOgg1/chatlog/internal/render"
)

var (
	exportName          string
	exportHandles       []string
	exportChat          int64
	exportFormat        string
	exportInline        bool
	exportForce         bool
	exportNoCopy        bool
	exportNoAttachments bool
	exportStart         string
	exportEnd           string
	exportMe            string
	exportOut           string
	exportSplit         int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportName, "name", "", "contact name from the config contact book")
	exportCmd.Flags().StringSliceVar(&exportHandles, "handle", nil, "handle identifier (phone number or email), repeatable")
	exportCmd.Flags().Int64Var(&exportChat, "chat", 0, "chat row id")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format (text, html)")
	exportCmd.Flags().BoolVar(&exportInline, "inline", false, "embed media in HTML output")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "redo attachment copies and conversions")
	exportCmd.Flags().BoolVar(&exportNoCopy, "no-copy", false, "reference attachments in place instead of copying")
	exportCmd.Flags().BoolVar(&exportNoAttachments, "no-attachments", false, "leave attachments out of the output")
	exportCmd.Flags().StringVar(&exportStart, "start", "", `only messages at or after this time ("YYYY-MM-DD HH:MM:SS")`)
	exportCmd.Flags().StringVar(&exportEnd, "end", "", `only messages at or before this time ("YYYY-MM-DD HH:MM:SS")`)
	exportCmd.Flags().StringVar(&exportMe, "me", "", "display name for your side of the conversation")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default: stdout)")
	exportCmd.Flags().IntVar(&exportSplit, "split", -1, "rows per HTML file, 0 = single file")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a conversation as text or HTML",
	Long: `Export one conversation, selected by contact name, handle or chat
row id, rendered as colorized text or browsable HTML.`,
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

		scope, title, err := buildScope(dir, exportName, exportHandles, exportChat)
		if err != nil {
			return err
		}

		start, end, err := queryWindow()
		if err != nil {
			return err
		}

		display := cfg.Display
		if exportFormat != "" {
			display.OutputType = exportFormat
		}
		if exportMe != "" {
			display.Me = exportMe
		}
		if exportInline {
			display.Inline = true
		}
		if exportSplit >= 0 {
			display.Split = exportSplit
		}
		switch display.OutputType {
		case "text", "html":
		default:
			return fmt.Errorf("unknown format %q", display.OutputType)
		}

		library, err := loadAttachments(ctx, database, title)
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

		return writeExport(ctx, dir, library, collection, display, title, start, end)
	},
}

func queryWindow() (start, end *time.Time, err error) {
	window := cfg.Query
	if exportStart != "" {
		window.Start = exportStart
	}
	if exportEnd != "" {
		window.End = exportEnd
	}
	return window.Window()
}

// loadAttachments scans the attachment table with copy/skip settings
// resolved from config and flags.
func loadAttachments(ctx context.Context, database *db.DB, title string) (*media.Library, error) {
	copyEnabled := cfg.Attachments.Copy && !exportNoCopy
	skip := cfg.Attachments.Skip || exportNoAttachments

	attachmentDir := ""
	if copyEnabled && !skip {
		attachmentDir = filepath.Join(cfg.Attachments.Directory, fileBase(title)+"_attachments")
		if err := os.MkdirAll(attachmentDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create attachment directory: %w", err)
		}
	}

	return media.LoadLibrary(ctx, database, media.Options{
		Copy: copyEnabled,
		Dir:  attachmentDir,
	}, skip)
}

func writeExport(ctx context.Context, dir *directory.Directory, library *media.Library, collection *models.MessageCollection, display config.DisplayConfig, title string, start, end *time.Time) error {
	logger := logging.Component("cli")

	switch display.OutputType {
	case "text":
		renderer := render.NewTextRenderer(dir, library, render.TextOptions{
			Me:       display.Me,
			UseColor: display.UseTextColor,
			Palette:  display.TextColors,
		})
		if exportOut == "" {
			return renderer.Render(os.Stdout, collection)
		}
		if err := os.MkdirAll(exportOut, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(exportOut, fileBase(title)+".txt")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		if err := renderer.Render(file, collection); err != nil {
			return err
		}
		logger.Info().Str("file", path).Int("messages", collection.Len()).Msg("export written")
		return nil

	default:
		force := cfg.Attachments.Force || exportForce
		renderer := render.NewHTMLRenderer(dir, library, media.NewConverter(force), render.HTMLOptions{
			Title:             title,
			Me:                display.Me,
			Inline:            display.Inline,
			PopupFloating:     display.PopupLocation == "floating",
			PopupLocation:     display.PopupLocation,
			BackgroundPalette: display.HTMLBackgroundColors,
			NamePalette:       display.HTMLNameColors,
			ThreadBackground:  display.ThreadBackground,
			AdditionalDetails: display.AdditionalDetails,
			Split:             display.Split,
			Start:             start,
			End:               end,
		})
		if exportOut == "" {
			return renderer.Render(ctx, os.Stdout, collection)
		}
		if err := os.MkdirAll(exportOut, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		base := filepath.Join(exportOut, fileBase(title))
		if err := renderer.RenderFiles(ctx, base, collection); err != nil {
			return err
		}
		logger.Info().Str("file", base+".html").Int("messages", collection.Len()).Msg("export written")
		return nil
	}
}
