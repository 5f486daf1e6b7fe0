package qmp

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a method is called on a disconnected client
var ErrNotConnected = errors.New("not connected to QMP socket")

// ErrUnmappableChar is returned for characters with no US keyboard qcode
var ErrUnmappableChar = errors.New("character has no key mapping")

// ErrCommandFailed is returned when a QMP command fails
func ErrCommandFailed(cmd string, err error) error {
	return fmt.Errorf("command %q failed: %w", cmd, err)
}

// ErrInvalidResponse is returned when an invalid response is received
func ErrInvalidResponse(detail string) error {
	return fmt.Errorf("invalid response: %s", detail)
}
