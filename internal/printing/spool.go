package printing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	applog "temple/internal/log"
)

// SpoolConsumer writes each job into a directory and optionally runs a print
// command on the file, e.g. "lp -o media=A5". The file path is appended as
// the last argument.
type SpoolConsumer struct {
	dir     string
	command []string
	timeout time.Duration
	logger  *applog.Logger
}

func NewSpoolConsumer(dir, command string, timeout time.Duration, logger *applog.Logger) *SpoolConsumer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SpoolConsumer{
		dir:     dir,
		command: strings.Fields(command),
		timeout: timeout,
		logger:  logger.WithComponent(applog.ComponentPrint),
	}
}

// SpoolPath is where job is written: <time>_<receipt>_<job>.pdf.
func (s *SpoolConsumer) SpoolPath(job Job) string {
	name := job.CreatedAt.Format("20060102T150405") + "_" + strconv.FormatInt(job.ReceiptID, 10) + "_" + job.ID + ".pdf"
	return filepath.Join(s.dir, name)
}

func (s *SpoolConsumer) Print(ctx context.Context, job Job) error {
	if len(job.Document) == 0 {
		return fmt.Errorf("print job %s has no document", job.ID)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create spool directory: %w", err)
	}

	path := s.SpoolPath(job)
	if err := os.WriteFile(path, job.Document, 0644); err != nil {
		return fmt.Errorf("spool job %s: %w", job.ID, err)
	}
	s.logger.InfoContext(ctx, "Print job spooled",
		applog.FieldJobID, job.ID, applog.FieldReceiptID, job.ReceiptID, applog.FieldFile, path)

	if len(s.command) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.command[1:]...), path)
	cmd := exec.CommandContext(ctx, s.command[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s for job %s: %w: %s", s.command[0], job.ID, err, strings.TrimSpace(stderr.String()))
	}
	s.logger.InfoContext(ctx, "Print command finished", applog.FieldJobID, job.ID, "command", s.command[0])
	return nil
}
