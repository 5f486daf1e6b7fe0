package qmp

import "path/filepath"

// DefaultSocketDir is where Proxmox places per-VM QMP sockets
const DefaultSocketDir = "/var/run/qemu-server"

// AbsMax is the upper bound of QEMU absolute pointer coordinates
const AbsMax = 0x7fff

// SocketPathFor returns the default QMP socket for a VM id
func SocketPathFor(vmid string) string {
	return filepath.Join(DefaultSocketDir, vmid+".qmp")
}
