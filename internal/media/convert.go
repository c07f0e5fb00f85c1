package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/models"
)

// CommandRunner executes an external codec command. Injectable for tests.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// Converter copies and transcodes attachments. Every operation is
// idempotent-by-existence: an existing destination is a success and a
// no-op unless Force is set. Failures are logged and leave the
// destination absent; one bad attachment never aborts a render.
type Converter struct {
	// Force redoes copies and conversions even when the destination
	// already exists.
	Force bool

	runner CommandRunner
	logger zerolog.Logger
}

// NewConverter creates a Converter invoking the real external codecs.
func NewConverter(force bool) *Converter {
	return &Converter{
		Force:  force,
		runner: runCommand,
		logger: logging.Component("media"),
	}
}

// SetRunner replaces the external command runner.
func (c *Converter) SetRunner(runner CommandRunner) {
	c.runner = runner
}

// Ensure makes the attachment's destination file exist, dispatching on
// the conversion kind. Returns the (already logged) failure so callers
// can render a missing-media marker; they are expected to continue.
func (c *Converter) Ensure(ctx context.Context, att *models.Attachment) error {
	if att.Missing || att.Skip || !att.Copy {
		return nil
	}

	var err error
	switch att.Conversion {
	case models.ConvertHEICToPNG:
		err = c.ConvertImage(ctx, att)
	case models.ConvertAudio, models.ConvertVideo:
		err = c.ConvertAudioVideo(ctx, att)
	default:
		err = c.Copy(att)
	}
	if err != nil {
		c.logger.Warn().Err(err).
			Str("source", att.OriginalPath).
			Str("destination", att.DestinationPath).
			Msg("attachment processing failed")
	}
	return err
}

// Copy copies the source file to the destination.
func (c *Converter) Copy(att *models.Attachment) error {
	if c.exists(att.DestinationPath) {
		return nil
	}

	src, err := os.Open(att.OriginalPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", att.OriginalPath, err)
	}
	defer src.Close()

	dst, err := os.Create(att.DestinationPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", att.DestinationPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(att.DestinationPath)
		return fmt.Errorf("failed to copy %s: %w", att.OriginalPath, err)
	}
	return dst.Close()
}

// ConvertImage converts a HEIC source to PNG via ImageMagick.
func (c *Converter) ConvertImage(ctx context.Context, att *models.Attachment) error {
	if c.exists(att.DestinationPath) {
		return nil
	}

	if err := c.runner(ctx, "magick", att.OriginalPath, att.DestinationPath); err != nil {
		_ = os.Remove(att.DestinationPath)
		return fmt.Errorf("failed to convert %s: %w", att.OriginalPath, err)
	}
	return nil
}

// ConvertAudioVideo transcodes an audio or video source via ffmpeg.
func (c *Converter) ConvertAudioVideo(ctx context.Context, att *models.Attachment) error {
	if c.exists(att.DestinationPath) {
		return nil
	}

	if err := c.runner(ctx, "ffmpeg", "-y", "-loglevel", "error",
		"-i", att.OriginalPath, att.DestinationPath); err != nil {
		_ = os.Remove(att.DestinationPath)
		return fmt.Errorf("failed to transcode %s: %w", att.OriginalPath, err)
	}
	return nil
}

// exists reports whether the destination already satisfies the
// operation. Force disables the shortcut.
func (c *Converter) exists(path string) bool {
	if c.Force {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
