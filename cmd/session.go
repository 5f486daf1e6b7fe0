package cmd

import (
	"github.com/jeeftor/qmp-macro/internal/interp"
	"github.com/jeeftor/qmp-macro/internal/qmp"
	"github.com/jeeftor/qmp-macro/internal/screen"
	"github.com/jeeftor/qmp-macro/internal/utils"
)

// session bundles the collaborators a script run drives
type session struct {
	target  string
	input   interp.Input
	matcher interp.ScreenMatcher
	exec    *utils.CommandExecutor
}

// openSession connects to vmid, or builds a logging-only session for dry runs
func openSession(vmid string, dryRun bool) (*session, error) {
	if dryRun {
		target := vmid
		if target == "" {
			target = "dry-run"
		}
		return &session{
			target:  target,
			input:   interp.DryRunInput{},
			matcher: interp.AssumeMatch{},
		}, nil
	}

	exec := utils.NewCommandExecutor(vmid, "run")
	if err := exec.ConnectToVM(ConnectToVM); err != nil {
		return nil, err
	}

	client := exec.Client
	if status, err := client.QueryStatus(); err == nil && !status.Running {
		exec.Logger.Warn("VM is not running; input may be dropped", "status", status.Status)
	}

	return &session{
		target:  vmid,
		input:   qmp.NewInput(client, resolver.ResolveKeyDelay()),
		matcher: screen.NewMatcher(client, screen.NewImageCache()),
		exec:    exec,
	}, nil
}

// close releases the connection and logs the outcome of the command
func (s *session) close(err error) {
	if s.exec != nil {
		s.exec.Finish(err)
	}
}

// newInterpreter builds an interpreter bound to the session
func (s *session) newInterpreter(opts ...interp.Option) *interp.Interpreter {
	opts = append([]interp.Option{interp.WithTarget(s.target)}, opts...)
	return interp.New(s.input, s.matcher, opts...)
}

// newClient is used by commands that need the raw QMP client
func newClient(vmid string) (*qmp.Client, error) {
	client, err := ConnectToVM(vmid)
	if err != nil {
		return nil, utils.ConnectionError(vmid, err)
	}
	return client, nil
}
