package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var defaultFileMode = os.FileMode(0o666)

const charDevice = "c"

// deviceType maps device type strings to their corresponding kernel values.
var deviceType = map[string]uint32{
	"b": unix.S_IFBLK,
	"c": unix.S_IFCHR,
	"u": unix.S_IFCHR,
	"p": unix.S_IFIFO,
}

// DefaultDevices is the fixed set of device nodes created in every new root's
// /dev, in creation order.
var DefaultDevices = []specs.LinuxDevice{
	{Type: charDevice, Path: "/dev/null", Major: 1, Minor: 3, FileMode: &defaultFileMode},
	{Type: charDevice, Path: "/dev/zero", Major: 1, Minor: 5, FileMode: &defaultFileMode},
	{Type: charDevice, Path: "/dev/full", Major: 1, Minor: 7, FileMode: &defaultFileMode},
	{Type: charDevice, Path: "/dev/random", Major: 1, Minor: 8, FileMode: &defaultFileMode},
	{Type: charDevice, Path: "/dev/urandom", Major: 1, Minor: 9, FileMode: &defaultFileMode},
	{Type: charDevice, Path: "/dev/tty", Major: 5, Minor: 0, FileMode: &defaultFileMode},
	{Type: charDevice, Path: "/dev/ptmx", Major: 5, Minor: 2, FileMode: &defaultFileMode},
}

// CreateDeviceNodes creates device nodes in rootfs for each of the given
// devices, in order. The parent directory of every device must already exist.
// The first failure is returned, naming the index and path of the device.
func CreateDeviceNodes(devices []specs.LinuxDevice, rootfs string) error {
	for i, d := range devices {
		if err := createDeviceNode(d, rootfs); err != nil {
			return fmt.Errorf("create device %d (%s): %w", i, d.Path, err)
		}
	}

	return nil
}

func createDeviceNode(d specs.LinuxDevice, rootfs string) error {
	typ, ok := deviceType[d.Type]
	if !ok {
		return fmt.Errorf("unsupported device type '%s'", d.Type)
	}

	mode := defaultFileMode
	if d.FileMode != nil {
		mode = *d.FileMode
	}

	absPath := filepath.Join(rootfs, strings.TrimPrefix(d.Path, "/"))

	logrus.WithFields(logrus.Fields{
		"path":  absPath,
		"major": d.Major,
		"minor": d.Minor,
		"mode":  mode,
	}).Debug("mknod")

	if err := unix.Mknod(
		absPath,
		typ|uint32(mode.Perm()),
		int(unix.Mkdev(uint32(d.Major), uint32(d.Minor))),
	); err != nil {
		return fmt.Errorf("mknod %s: %w", absPath, err)
	}

	// mknod is subject to the umask.
	if err := unix.Chmod(absPath, uint32(mode.Perm())); err != nil {
		return fmt.Errorf("chmod %s: %w", absPath, err)
	}

	return nil
}
