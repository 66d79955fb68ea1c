package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"
)

// ProcessOptimizer runs an optimizer command per request.
// The request is written to stdin and the response read from stdout.
type ProcessOptimizer struct {
	Path string
	Args []string
	// Env is appended to the parent environment.
	Env []string
}

// NewProcessOptimizer splits cmdLine on whitespace into program and arguments.
func NewProcessOptimizer(cmdLine string) (*ProcessOptimizer, error) {
	fields := strings.Fields(cmdLine)
	if len(fields) == 0 {
		return nil, errors.New("process optimizer: command is empty")
	}
	return &ProcessOptimizer{Path: fields[0], Args: fields[1:]}, nil
}

// Optimize kills the process when ctx is done; its output is then discarded.
func (p *ProcessOptimizer) Optimize(ctx context.Context, stops []domain.Stop) (_ ports.TourOutcome, err error) {
	defer obs.Time(ctx, "optimizer.process")(&err)

	payload, err := json.Marshal(NewRequest(stops))
	if err != nil {
		return ports.TourOutcome{}, fmt.Errorf("%w: encode request: %w", domain.ErrExternalOptimizerUnavailable, err)
	}

	stdout := &cappedBuffer{max: maxResponseBytes}
	stderr := &cappedBuffer{max: maxStderrBytes, truncate: true}
	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}

	runErr := cmd.Run()
	if stdout.exceeded {
		return ports.TourOutcome{}, fmt.Errorf("%w: %s: %w", domain.ErrExternalOptimizerUnavailable, p.Path, errOutputTooLarge)
	}
	if err := runErr; err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ports.TourOutcome{}, fmt.Errorf("%w: %s: %w", domain.ErrExternalOptimizerUnavailable, p.Path, ctxErr)
		}
		return ports.TourOutcome{}, fmt.Errorf("%w: %s: %w: %s",
			domain.ErrExternalOptimizerUnavailable, p.Path, err, tail(stderr.String(), 512))
	}

	return DecodeResponse(&stdout.buf)
}

const maxStderrBytes = 64 << 10

var errOutputTooLarge = fmt.Errorf("output exceeds %d bytes", maxResponseBytes)

// cappedBuffer keeps at most max bytes. Past the cap it either fails the
// write, which stops the copy and closes the child's pipe, or with truncate
// set drops the excess silently.
type cappedBuffer struct {
	buf      bytes.Buffer
	max      int
	truncate bool
	exceeded bool
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	room := c.max - c.buf.Len()
	if len(p) <= room {
		return c.buf.Write(p)
	}

	c.exceeded = true
	if room > 0 {
		c.buf.Write(p[:room])
	}
	if c.truncate {
		return len(p), nil
	}
	return room, errOutputTooLarge
}

func (c *cappedBuffer) String() string { return c.buf.String() }

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return "..." + s[len(s)-n:]
	}
	return s
}
