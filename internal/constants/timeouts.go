package constants

import "time"

// Default delays used by the run command
const (
	// pause between characters of a key sequence
	DefaultKeyDelay = 50 * time.Millisecond

	// refresh rate of the run view spinner
	TUITickInterval = 100 * time.Millisecond
)
