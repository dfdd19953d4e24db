package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetHostname sets the hostname of the caller's UTS namespace.
func SetHostname(hostname string) error {
	if err := unix.Sethostname([]byte(hostname)); err != nil {
		return fmt.Errorf("set hostname %s: %w", hostname, err)
	}

	return nil
}
