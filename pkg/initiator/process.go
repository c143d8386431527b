package initiator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os/exec"
	"strings"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/types"
	"github.com/hsguild/warden/pkg/werr"
)

// inputMessage is the one JSON shape a process initiator's stdout
// lines are parsed as: {"state": <Status>}.
type inputMessage struct {
	State types.Status `json:"state"`
}

// ProcessSource spawns a child process and treats each newline-
// terminated line of its stdout as a proposed state. Partial lines
// are buffered by bufio.Scanner until the next newline; invalid JSON
// lines are logged and discarded, not fatal. Child exit closes stdout,
// which ends the source.
type ProcessSource struct {
	name string
	cmd  *exec.Cmd
	out  chan types.Status
	done chan struct{}
}

// NewProcessSource spawns params["cmd"] (with params["args"] split on
// whitespace as extra arguments) and starts reading its stdout.
func NewProcessSource(name string, params map[string]string) (*ProcessSource, error) {
	cmdPath, ok := params["cmd"]
	if !ok || cmdPath == "" {
		return nil, werr.New(werr.ConfigInvalid, "process initiator requires a cmd parameter")
	}
	var args []string
	if raw, ok := params["args"]; ok {
		args = strings.Fields(raw)
	}

	cmd := exec.Command(cmdPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "process initiator stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "process initiator spawn failed")
	}

	p := &ProcessSource{
		name: name,
		cmd:  cmd,
		out:  make(chan types.Status),
		done: make(chan struct{}),
	}
	go p.readLoop(stdout)
	return p, nil
}

func (p *ProcessSource) readLoop(stdout io.ReadCloser) {
	defer close(p.out)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var msg inputMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			log.Logger.Warn().Str("initiator", p.name).Err(err).Msg("process initiator did not send a valid line")
			continue
		}
		select {
		case p.out <- msg.State:
		case <-p.done:
			return
		}
	}
}

func (p *ProcessSource) Next(ctx context.Context) (types.Status, bool) {
	select {
	case st, ok := <-p.out:
		return st, ok
	case <-ctx.Done():
		return types.Status{}, false
	}
}

// Close kills the child process, waits for it to exit (which closes
// its stdout and ends readLoop), and releases the read loop goroutine
// in case it was blocked sending to a channel nobody drains anymore.
func (p *ProcessSource) Close() error {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	close(p.done)
	return nil
}
