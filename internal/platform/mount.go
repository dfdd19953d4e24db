package platform

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sys/unix"
)

// ErrInvalidPropagation is returned when a mount requests an unsupported
// combination of propagation flags.
var ErrInvalidPropagation = errors.New("invalid propagation flag")

const propagationFlags = unix.MS_SHARED |
	unix.MS_PRIVATE |
	unix.MS_SLAVE |
	unix.MS_UNBINDABLE

var validPropagationFlags = []uintptr{
	0,
	unix.MS_SHARED,
	unix.MS_PRIVATE,
	unix.MS_SLAVE,
	unix.MS_UNBINDABLE,
}

func mount(source, target, fstype string, flags uintptr, data string) error {
	if err := unix.Mount(source, target, fstype, flags, data); err != nil {
		return fmt.Errorf(
			"mount %s to %s (type=%s, flags=%#x): %w",
			source, target, fstype, flags, err,
		)
	}

	return nil
}

// MoveMount atomically moves the mount at source so that it is mounted at
// target instead.
func MoveMount(source, target string) error {
	return mount(source, target, "", unix.MS_MOVE, "")
}

// SetPropagation sets the propagation type for the mount at the given target.
// Valid values for flag are MS_SHARED, MS_PRIVATE, MS_SLAVE, MS_UNBINDABLE and
// only one flag may be provided. The MS_REC modifier can be OR'd with any
// propagation type to make it recursive.
func SetPropagation(target string, flag uintptr) error {
	if !validatePropagationFlag(flag) {
		return fmt.Errorf("%w: %#x", ErrInvalidPropagation, flag)
	}

	return mount("", target, "", flag, "")
}

func validatePropagationFlag(flag uintptr) bool {
	baseFlag := flag &^ unix.MS_REC

	return slices.Contains(validPropagationFlags, baseFlag)
}

// isPropagationChange reports whether flags request a propagation change
// rather than a new, bind or remount mount.
func isPropagationChange(flags uintptr) bool {
	return flags&propagationFlags != 0
}
