package platform

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// EnterRoot makes rootfs, which must already be a mount point, the root
// filesystem and working directory of the calling process. The mount is moved
// over "/" rather than unmounted and remounted, so there is no window in which
// the new root is missing.
func EnterRoot(rootfs string) error {
	logrus.WithField("rootfs", rootfs).Debug("enter root")

	if err := unix.Chdir(rootfs); err != nil {
		return fmt.Errorf("chdir to %s: %w", rootfs, err)
	}

	if err := MoveMount(".", "/"); err != nil {
		return fmt.Errorf("move root: %w", err)
	}

	if err := unix.Chroot("."); err != nil {
		return fmt.Errorf("chroot to %s: %w", rootfs, err)
	}

	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("chdir to new root: %w", err)
	}

	return nil
}
