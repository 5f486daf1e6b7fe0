package params

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jeeftor/qmp-macro/internal/constants"
	"github.com/spf13/viper"
)

// ParameterResolver handles resolution of common parameters from multiple sources.
// Sources in priority order: CLI args > flags > env vars > config > defaults.
type ParameterResolver struct{}

// NewParameterResolver creates a new parameter resolver
func NewParameterResolver() *ParameterResolver {
	return &ParameterResolver{}
}

// ParameterInfo provides information about where a parameter came from
type ParameterInfo struct {
	Value  string
	Source string
}

// ResolveVMID resolves VM ID from arguments or vm_id (QMP_MACRO_VM_ID / config)
func (r *ParameterResolver) ResolveVMID(args []string, argIndex int) (string, error) {
	info, err := r.ResolveVMIDWithInfo(args, argIndex)
	return info.Value, err
}

// ResolveVMIDWithInfo is ResolveVMID that also reports the source
func (r *ParameterResolver) ResolveVMIDWithInfo(args []string, argIndex int) (ParameterInfo, error) {
	if argIndex >= 0 && argIndex < len(args) && args[argIndex] != "" {
		vmid := args[argIndex]
		if _, err := strconv.Atoi(vmid); err != nil {
			return ParameterInfo{}, fmt.Errorf("invalid VM ID '%s': must be numeric", vmid)
		}
		return ParameterInfo{Value: vmid, Source: "argument"}, nil
	}

	if vmid := viper.GetString("vm_id"); vmid != "" {
		if _, err := strconv.Atoi(vmid); err != nil {
			return ParameterInfo{}, fmt.Errorf("invalid vm_id '%s': must be numeric", vmid)
		}
		return ParameterInfo{Value: vmid, Source: "config"}, nil
	}

	return ParameterInfo{}, fmt.Errorf("VM ID is required: provide as argument or set QMP_MACRO_VM_ID")
}

// SplitVMID separates an optional leading VM ID from the remaining positional
// arguments. want is the number of arguments that follow the VM ID.
func (r *ParameterResolver) SplitVMID(args []string, want int) (string, []string, error) {
	switch len(args) {
	case want + 1:
		vmid, err := r.ResolveVMID(args, 0)
		return vmid, args[1:], err
	case want:
		vmid, err := r.ResolveVMID(nil, -1)
		return vmid, args, err
	default:
		return "", nil, fmt.Errorf("expected %d or %d arguments, got %d", want, want+1, len(args))
	}
}

// ResolveKeyDelay returns keyboard.delay as a duration
func (r *ParameterResolver) ResolveKeyDelay() time.Duration {
	if viper.IsSet("keyboard.delay") {
		return time.Duration(viper.GetInt("keyboard.delay")) * time.Millisecond
	}
	return constants.DefaultKeyDelay
}

// ResolveScreenDimensions returns screen.width/height. ok is false when
// neither is configured and the size should be probed.
func (r *ParameterResolver) ResolveScreenDimensions() (width, height int, ok bool, err error) {
	width, height = viper.GetInt("screen.width"), viper.GetInt("screen.height")
	if width == 0 && height == 0 {
		return 0, 0, false, nil
	}
	if err := constants.ValidateScreenDimensions(width, height); err != nil {
		return 0, 0, false, fmt.Errorf("invalid screen size in config: %w", err)
	}
	return width, height, true, nil
}

// ResolveRemoteTempPath returns screenshot.remote_temp_path, if set
func (r *ParameterResolver) ResolveRemoteTempPath() string {
	return viper.GetString("screenshot.remote_temp_path")
}
