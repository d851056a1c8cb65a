package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"temple/internal/core"
)

// CommandRenderer produces PDFs by piping the HTML variant of a template
// through an external headless renderer, which reads HTML on stdin and
// writes PDF on stdout. Other templates go to the fallback.
type CommandRenderer struct {
	command  []string
	fallback Renderer
}

// NewCommandRenderer splits command on whitespace.
func NewCommandRenderer(command string, fallback Renderer) (*CommandRenderer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("render command is empty")
	}
	return &CommandRenderer{command: fields, fallback: fallback}, nil
}

var htmlVariant = map[string]string{
	TemplateReceiptPDF: TemplateReceiptHTML,
	TemplateBackupPDF:  TemplateBackupHTML,
}

func (c *CommandRenderer) Render(ctx context.Context, name string, data any) ([]byte, error) {
	htmlName, ok := htmlVariant[name]
	if !ok {
		return c.fallback.Render(ctx, name, data)
	}

	html, err := c.fallback.Render(ctx, htmlName, data)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.command[0], c.command[1:]...)
	cmd.Stdin = bytes.NewReader(html)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		return nil, fmt.Errorf("%w: %s: %s: %v %s", core.ErrRendering, name, c.command[0], err, msg)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: %s produced no output", core.ErrRendering, name, c.command[0])
	}
	return stdout.Bytes(), nil
}

// DefaultTimeout bounds a single render.
const DefaultTimeout = 30 * time.Second

type timeoutRenderer struct {
	next    Renderer
	timeout time.Duration
}

// WithTimeout bounds every Render call on r. A deadline overrun is reported
// as core.ErrRendering.
func WithTimeout(r Renderer, d time.Duration) Renderer {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &timeoutRenderer{next: r, timeout: d}
}

func (t *timeoutRenderer) Render(ctx context.Context, name string, data any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := t.next.Render(ctx, name, data)
		done <- result{out, err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) && !errors.Is(res.err, core.ErrRendering) {
			return nil, fmt.Errorf("%w: %s: %v", core.ErrRendering, name, res.err)
		}
		return res.out, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s: timed out after %s", core.ErrRendering, name, t.timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", core.ErrRendering, name, ctx.Err())
	}
}
