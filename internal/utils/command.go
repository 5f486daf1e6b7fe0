package utils

import (
	"time"

	"github.com/jeeftor/qmp-macro/internal/logging"
	"github.com/jeeftor/qmp-macro/internal/qmp"
)

// CommandExecutor provides standardized execution patterns for QMP commands
type CommandExecutor struct {
	VMID      string
	Operation string
	Logger    *logging.ContextualLogger
	Client    *qmp.Client
	started   time.Time
}

// NewCommandExecutor creates a new standardized command executor
func NewCommandExecutor(vmid string, operation string) *CommandExecutor {
	return &CommandExecutor{
		VMID:      vmid,
		Operation: operation,
		Logger:    logging.NewContextualLogger(vmid, operation),
		started:   time.Now(),
	}
}

// ConnectToVM establishes the QMP connection through connectFn
func (ce *CommandExecutor) ConnectToVM(connectFn func(string) (*qmp.Client, error)) error {
	ce.Logger.Debug("Establishing QMP connection")

	client, err := connectFn(ce.VMID)
	if err != nil {
		ce.Logger.Error("Failed to connect to VM", "error", err)
		return ConnectionError(ce.VMID, err)
	}

	ce.Client = client
	ce.Logger.Debug("QMP connection established successfully")
	return nil
}

// Finish closes the connection and logs how the command ended
func (ce *CommandExecutor) Finish(err error) time.Duration {
	ce.Close()
	elapsed := time.Since(ce.started)
	if err != nil {
		ce.Logger.Error("Command failed", "duration", elapsed, "error", err)
	} else {
		ce.Logger.Debug("Command completed", "duration", elapsed)
	}
	return elapsed
}

// Close ensures proper cleanup (defer-safe)
func (ce *CommandExecutor) Close() {
	if ce.Client != nil {
		ce.Client.Close()
		ce.Client = nil
	}
}

// ExecuteWithConnection runs fn against a freshly connected client
func ExecuteWithConnection(vmid string, operation string, connectFn func(string) (*qmp.Client, error), fn func(*qmp.Client) error) (err error) {
	ce := NewCommandExecutor(vmid, operation)
	defer func() { ce.Finish(err) }()

	if err = ce.ConnectToVM(connectFn); err != nil {
		return err
	}
	return fn(ce.Client)
}
