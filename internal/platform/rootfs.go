package platform

import (
	"github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"
)

// pseudoFilesystems are mounted, in order, inside every new root after it has
// been made a mount point.
var pseudoFilesystems = []specs.Mount{
	{
		Destination: "/proc",
		Type:        "proc",
		Source:      "proc",
	},
	{
		Destination: "/sys",
		Type:        "sysfs",
		Source:      "sysfs",
	},
	{
		Destination: "/dev",
		Type:        "tmpfs",
		Source:      "tmpfs",
		Options:     []string{"nosuid", "strictatime", "mode=755"},
	},
}

// RootfsMounts returns the ordered mounts that detach the mount namespace
// from the host, turn rootfs into a mount point (read-only when readonly is
// true) and mount the pseudo filesystems inside it.
func RootfsMounts(rootfs string, readonly bool) []MountSpec {
	mounts := []MountSpec{
		// Nothing mounted from here on may propagate back to the host.
		{Target: "/", Flags: unix.MS_REC | unix.MS_SLAVE},
		{Source: rootfs, Target: rootfs, Flags: unix.MS_BIND},
	}

	if readonly {
		// Without MS_BIND the remount would apply to the underlying superblock.
		mounts = append(mounts, MountSpec{
			Target: rootfs,
			Flags:  unix.MS_BIND | unix.MS_REMOUNT | unix.MS_RDONLY,
		})
	}

	for _, m := range pseudoFilesystems {
		mounts = append(mounts, MountSpecFromOCI(m, rootfs))
	}

	return mounts
}

// PrepareRootfs applies RootfsMounts for rootfs.
func PrepareRootfs(rootfs string, readonly bool) error {
	return MountAll(RootfsMounts(rootfs, readonly))
}
