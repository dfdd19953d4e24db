package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SymlinkSpec describes a symbolic link at Path, relative to the root
// filesystem, pointing to Target.
type SymlinkSpec struct {
	Target string
	Path   string
}

// DefaultSymlinks are the symlinks every new root needs so that common
// device paths work correctly.
var DefaultSymlinks = []SymlinkSpec{
	{Target: "/proc/self/fd", Path: "dev/fd"},
	{Target: "/proc/self/fd/0", Path: "dev/stdin"},
	{Target: "/proc/self/fd/1", Path: "dev/stdout"},
	{Target: "/proc/self/fd/2", Path: "dev/stderr"},
}

// CreateDefaultSymlinks creates the DefaultSymlinks inside rootfs.
func CreateDefaultSymlinks(rootfs string) error {
	return createSymlinks(DefaultSymlinks, rootfs)
}

func createSymlinks(symlinks []SymlinkSpec, rootfs string) error {
	for i, s := range symlinks {
		linkPath := filepath.Join(rootfs, s.Path)

		logrus.WithFields(logrus.Fields{
			"target": s.Target,
			"path":   linkPath,
		}).Debug("symlink")

		if err := os.Symlink(s.Target, linkPath); err != nil {
			return fmt.Errorf("create symlink %d (%s): %w", i, s.Path, err)
		}
	}

	return nil
}
