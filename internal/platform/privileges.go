package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syndtr/gocapability/capability"
	"golang.org/x/sys/unix"
)

var (
	// ErrNotRoot is returned when the effective user is not the superuser.
	ErrNotRoot = errors.New("must be run as root")
	// ErrMissingCapabilities is returned when the effective capability set
	// lacks a capability needed to build the isolated root.
	ErrMissingCapabilities = errors.New("missing required capabilities")
)

// requiredCapabilities are needed for, respectively, creating namespaces and
// mounts, calling chroot and creating device nodes.
var requiredCapabilities = []capability.Cap{
	capability.CAP_SYS_ADMIN,
	capability.CAP_SYS_CHROOT,
	capability.CAP_MKNOD,
}

// CheckPrivileges verifies that the calling process runs as the superuser
// with the effective capabilities required for isolation. It performs no
// other side effects.
func CheckPrivileges() error {
	if err := checkPrivileges(unix.Geteuid(), nil); err != nil {
		return err
	}

	caps, err := capability.NewPid2(0)
	if err != nil {
		return fmt.Errorf("get process capabilities: %w", err)
	}

	if err := caps.Load(); err != nil {
		return fmt.Errorf("load process capabilities: %w", err)
	}

	return checkPrivileges(unix.Geteuid(), func(c capability.Cap) bool {
		return caps.Get(capability.EFFECTIVE, c)
	})
}

// checkPrivileges decides on euid first and, when hasCap is not nil, on the
// effective capabilities it reports.
func checkPrivileges(euid int, hasCap func(capability.Cap) bool) error {
	if euid != 0 {
		return ErrNotRoot
	}

	if hasCap == nil {
		return nil
	}

	var missing []string

	for _, c := range requiredCapabilities {
		if !hasCap(c) {
			missing = append(missing, "CAP_"+strings.ToUpper(c.String()))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf(
			"%w: %s",
			ErrMissingCapabilities,
			strings.Join(missing, ", "),
		)
	}

	return nil
}
