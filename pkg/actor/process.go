package actor

import (
	"context"
	"os/exec"
	"strings"

	"github.com/hsguild/warden/pkg/log"
	"github.com/hsguild/warden/pkg/types"
)

// Process actuates a resource by invoking an external command with
// the resource name, the new state's process word, and (when the
// state carries a holder) the holder's username as trailing arguments.
// The command's exit code and stderr are logged; there is no retry.
type Process struct {
	name string
	cmd  string
	args []string
}

// NewProcess builds a Process actor. params["cmd"] is required;
// params["args"] is a whitespace-separated list of extra leading
// arguments, matching the on-disk config shape.
func NewProcess(name string, params map[string]string) (*Process, bool) {
	cmdPath, ok := params["cmd"]
	if !ok || cmdPath == "" {
		return nil, false
	}
	var args []string
	if raw, ok := params["args"]; ok {
		args = strings.Fields(raw)
	}
	return &Process{name: name, cmd: cmdPath, args: args}, true
}

func (p *Process) Apply(ctx context.Context, status types.Status) error {
	argv := append(append([]string{}, p.args...), p.name, status.ProcessWord())
	if status.Kind.HasUser() {
		argv = append(argv, string(status.User))
	}

	cmd := exec.CommandContext(ctx, p.cmd, argv...)
	out, err := cmd.Output()
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line == "" {
			continue
		}
		log.Logger.Debug().Str("actor", p.name).Str("line", line).Msg("actor stdout")
	}
	if err == nil {
		return nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		log.Logger.Warn().Str("actor", p.name).Err(err).Msg("process actor failed to run cmd")
		return err
	}

	log.Logger.Warn().Str("actor", p.name).Str("state", status.String()).
		Int("code", exitErr.ExitCode()).Msg("actor returned nonzero exit code")
	for _, line := range strings.Split(strings.TrimRight(string(exitErr.Stderr), "\n"), "\n") {
		if line == "" {
			continue
		}
		log.Logger.Warn().Str("actor", p.name).Str("line", line).Msg("actor stderr")
	}
	return err
}
