// Package tuitest drives a compiled TUI binary inside a pseudo terminal and
// records what it paints, so integration tests can assert on rendered text
// instead of internal state.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 120
	defaultRows    = 36
	defaultTimeout = 8 * time.Second
)

// Keystroke is one scripted input. The delay is waited out before the bytes
// are written, so scripts can give the program time to settle between keys.
type Keystroke struct {
	After time.Duration
	Send  []byte
}

// Config describes the program under test and the script to replay.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Cols             int
	Rows             int
	Script           []Keystroke
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording holds the raw PTY stream and the frames parsed out of it.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run launches the command in a PTY, replays the script, waits for exit, and
// returns everything the program wrote to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cols, rows := cfg.Cols, cfg.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = mergeEnv(cfg.Env)

	allowed := map[int]struct{}{0: {}}
	for _, code := range cfg.AllowedExitCodes {
		allowed[code] = struct{}{}
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var captured bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		pending := make([]byte, 0, 128)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				pending = answerQueries(ptmx, append(pending, chunk...))
				_, _ = captured.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for _, key := range cfg.Script {
		if key.After > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(key.After):
			}
		}
		if len(key.Send) > 0 {
			if _, err := ptmx.Write(key.Send); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				if _, ok := allowed[exitErr.ExitCode()]; ok {
					break
				}
			}
			if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
				break
			}
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY unblocks the reader so it can drain.
	_ = ptmx.Close()
	<-drained

	raw := captured.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

// answerQueries replies to the terminal capability queries bubbletea issues
// on startup. Without answers the program blocks waiting on the terminal.
// Returns the unconsumed tail of the buffer.
func answerQueries(w io.Writer, buf []byte) []byte {
	replies := []struct{ query, answer []byte }{
		{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
		{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
		{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
		{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
		{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
	}
	for {
		matched := false
		for _, r := range replies {
			if idx := bytes.Index(buf, r.query); idx >= 0 {
				buf = buf[idx+len(r.query):]
				_, _ = w.Write(r.answer)
				matched = true
			}
		}
		if !matched {
			break
		}
	}
	// Keep a short tail in case a query straddles two reads.
	if len(buf) > 256 {
		buf = buf[len(buf)-64:]
	}
	return buf
}

func mergeEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

var (
	// KeyEnter sends a carriage return.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC asks the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyEsc backs out of inputs and overlays.
	KeyEsc = []byte{27}
	// KeyDown moves selection cursors.
	KeyDown = []byte("\x1b[B")
)
