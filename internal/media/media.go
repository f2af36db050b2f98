// Package media wraps the ffmpeg and ffprobe command-line tools for the
// audio conversion and video frame iteration capabilities.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrOutsideRoot is returned when a caller-supplied path resolves outside the
// configured media root.
var ErrOutsideRoot = errors.New("path escapes media root")

// Converter transcodes a file on the server's filesystem.
type Converter interface {
	Convert(ctx context.Context, inputFile, outputFile, format string) error
}

// FrameCounter iterates the frames of a video file.
type FrameCounter interface {
	CountFrames(ctx context.Context, path string) (int, error)
}

// Runner executes an external program and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run executes name with args. On failure the tail of stderr is included in
// the error, since that is where ffmpeg reports unsupported formats.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", filepath.Base(name), err, tail(stderr.String(), 512))
	}
	return stdout.Bytes(), nil
}

// Tool drives ffmpeg and ffprobe.
type Tool struct {
	ffmpeg  string
	ffprobe string
	root    string
	runner  Runner
}

// New creates a Tool. Paths given to Convert are resolved against root and
// must stay inside it.
func New(ffmpegPath, ffprobePath, root string, runner Runner) (*Tool, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving media root: %w", err)
	}
	return &Tool{ffmpeg: ffmpegPath, ffprobe: ffprobePath, root: absRoot, runner: runner}, nil
}

// Convert runs `ffmpeg -i in -f format out`. Nonexistent inputs and formats
// ffmpeg does not know are reported as ffmpeg reports them.
func (t *Tool) Convert(ctx context.Context, inputFile, outputFile, format string) error {
	in, err := t.resolve(inputFile)
	if err != nil {
		return err
	}
	out, err := t.resolve(outputFile)
	if err != nil {
		return err
	}

	slog.Debug("ffmpeg convert", "input", in, "output", out, "format", format)
	if _, err := t.runner.Run(ctx, t.ffmpeg, "-nostdin", "-y", "-i", in, "-f", format, out); err != nil {
		return fmt.Errorf("audio conversion: %w", err)
	}
	return nil
}

// CountFrames decodes every frame of the first video stream and returns how
// many were read.
func (t *Tool) CountFrames(ctx context.Context, path string) (int, error) {
	out, err := t.runner.Run(ctx, t.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_frames",
		"-show_entries", "stream=nb_read_frames",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("frame iteration: %w", err)
	}

	s := strings.TrimSpace(string(out))
	if s == "" {
		return 0, fmt.Errorf("frame iteration: no video stream found")
	}
	n, err := strconv.Atoi(strings.TrimRight(s, ","))
	if err != nil {
		return 0, fmt.Errorf("frame iteration: parsing ffprobe output %q: %w", s, err)
	}
	return n, nil
}

// resolve joins p onto the media root and rejects anything that escapes it.
func (t *Tool) resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path: %w", ErrOutsideRoot)
	}
	full := p
	if !filepath.IsAbs(full) {
		full = filepath.Join(t.root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(t.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", p, ErrOutsideRoot)
	}
	return full, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
