package platform

import (
	"errors"
	"fmt"

	"github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"
)

// ErrInvalidNamespace is returned when a namespace type has no corresponding
// clone flag.
var ErrInvalidNamespace = errors.New("invalid namespace")

// NamespaceFlags maps LinuxNamespaceType to corresponding Linux clone flags.
var NamespaceFlags = map[specs.LinuxNamespaceType]uintptr{
	specs.PIDNamespace:     unix.CLONE_NEWPID,
	specs.NetworkNamespace: unix.CLONE_NEWNET,
	specs.MountNamespace:   unix.CLONE_NEWNS,
	specs.IPCNamespace:     unix.CLONE_NEWIPC,
	specs.UTSNamespace:     unix.CLONE_NEWUTS,
	specs.UserNamespace:    unix.CLONE_NEWUSER,
	specs.CgroupNamespace:  unix.CLONE_NEWCGROUP,
	specs.TimeNamespace:    unix.CLONE_NEWTIME,
}

// IsolatedNamespaces are the namespaces every isolated process is created in.
var IsolatedNamespaces = []specs.LinuxNamespace{
	{Type: specs.MountNamespace},
	{Type: specs.PIDNamespace},
	{Type: specs.IPCNamespace},
	{Type: specs.UTSNamespace},
}

// CloneFlags combines the clone flags for all of the given namespaces so they
// can be requested in a single clone. Joining an existing namespace by path is
// not supported, and neither is an unknown namespace type; either fails the
// whole set.
func CloneFlags(namespaces []specs.LinuxNamespace) (uintptr, error) {
	var flags uintptr

	for _, ns := range namespaces {
		if ns.Path != "" {
			return 0, fmt.Errorf(
				"%w: cannot join %s namespace at %s",
				ErrInvalidNamespace, ns.Type, ns.Path,
			)
		}

		flag, ok := NamespaceFlags[ns.Type]
		if !ok {
			return 0, fmt.Errorf("%w: unknown type '%s'", ErrInvalidNamespace, ns.Type)
		}

		flags |= flag
	}

	return flags, nil
}
