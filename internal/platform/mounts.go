package platform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// MountSpec is a single declarative mount request. It is applied exactly once
// by Mount.
type MountSpec struct {
	Source string
	Target string
	FSType string
	Flags  uintptr
	Data   string
}

// Mount performs the mount described by m.
func (m MountSpec) Mount() error {
	if isPropagationChange(m.Flags) {
		return SetPropagation(m.Target, m.Flags)
	}

	return mount(m.Source, m.Target, m.FSType, m.Flags, m.Data)
}

type mountOption struct {
	flag      uintptr
	recursive bool
	invert    bool
}

var mountOptions = map[string]mountOption{
	"async":         {invert: true, flag: unix.MS_SYNCHRONOUS},
	"atime":         {invert: true, flag: unix.MS_NOATIME},
	"bind":          {flag: unix.MS_BIND},
	"defaults":      {flag: 0},
	"dev":           {invert: true, flag: unix.MS_NODEV},
	"diratime":      {invert: true, flag: unix.MS_NODIRATIME},
	"dirsync":       {flag: unix.MS_DIRSYNC},
	"exec":          {invert: true, flag: unix.MS_NOEXEC},
	"noatime":       {flag: unix.MS_NOATIME},
	"nodev":         {flag: unix.MS_NODEV},
	"nodiratime":    {flag: unix.MS_NODIRATIME},
	"noexec":        {flag: unix.MS_NOEXEC},
	"norelatime":    {invert: true, flag: unix.MS_RELATIME},
	"nostrictatime": {invert: true, flag: unix.MS_STRICTATIME},
	"nosuid":        {flag: unix.MS_NOSUID},
	"private":       {flag: unix.MS_PRIVATE},
	"rbind":         {recursive: true, flag: unix.MS_BIND},
	"relatime":      {flag: unix.MS_RELATIME},
	"remount":       {flag: unix.MS_REMOUNT},
	"ro":            {flag: unix.MS_RDONLY},
	"rprivate":      {recursive: true, flag: unix.MS_PRIVATE},
	"rshared":       {recursive: true, flag: unix.MS_SHARED},
	"rslave":        {recursive: true, flag: unix.MS_SLAVE},
	"runbindable":   {recursive: true, flag: unix.MS_UNBINDABLE},
	"rw":            {invert: true, flag: unix.MS_RDONLY},
	"shared":        {flag: unix.MS_SHARED},
	"slave":         {flag: unix.MS_SLAVE},
	"strictatime":   {flag: unix.MS_STRICTATIME},
	"suid":          {invert: true, flag: unix.MS_NOSUID},
	"sync":          {flag: unix.MS_SYNCHRONOUS},
	"unbindable":    {flag: unix.MS_UNBINDABLE},
}

// MountSpecFromOCI converts the OCI mount m into a MountSpec whose target is
// m.Destination resolved inside rootfs. Options that map to mount flags are
// folded into Flags, key=value options are passed as Data and anything else
// is ignored.
func MountSpecFromOCI(m specs.Mount, rootfs string) MountSpec {
	var flags uintptr
	var data []string

	for _, opt := range m.Options {
		if o, ok := mountOptions[opt]; ok {
			if o.invert {
				flags &^= o.flag
			} else {
				flags |= o.flag
			}

			if o.recursive {
				flags |= unix.MS_REC
			}
		} else if strings.Contains(opt, "=") {
			data = append(data, opt)
		}
	}

	return MountSpec{
		Source: m.Source,
		Target: filepath.Join(rootfs, m.Destination),
		FSType: m.Type,
		Flags:  flags,
		Data:   strings.Join(data, ","),
	}
}

// MountAll applies mounts in order, stopping at the first failure. The error
// names the index and target of the mount that failed.
func MountAll(mounts []MountSpec) error {
	for i, m := range mounts {
		logrus.WithFields(logrus.Fields{
			"source": m.Source,
			"target": m.Target,
			"fstype": m.FSType,
			"flags":  fmt.Sprintf("%#x", m.Flags),
			"data":   m.Data,
		}).Debug("mount")

		if err := m.Mount(); err != nil {
			return fmt.Errorf("mount %d (%s): %w", i, m.Target, err)
		}
	}

	return nil
}
