package qmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSocketPathFor(t *testing.T) {
	assert.Equal(t, "/var/run/qemu-server/106.qmp", SocketPathFor("106"))
}

func TestClientSocketPath(t *testing.T) {
	assert.Equal(t, "/var/run/qemu-server/9.qmp", New("9").SocketPath())
	assert.Equal(t, "/tmp/vm.sock", NewWithSocketPath("9", "/tmp/vm.sock").SocketPath())
}

func TestConstants(t *testing.T) {
	assert.Equal(t, 32767, AbsMax)
}
