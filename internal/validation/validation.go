package validation

import (
	"errors"
	"fmt"
	"strings"
)

// maxHostnameLength is HOST_NAME_MAX on Linux.
const maxHostnameLength = 64

// Hostname validates that the provided hostname is not empty, does not exceed
// maxHostnameLength and is made up of '.' separated labels of alphanumeric and
// '-' characters, none of which start or end with '-'.
func Hostname(name string) error {
	if name == "" {
		return errors.New("empty hostname")
	}

	if len(name) > maxHostnameLength {
		return fmt.Errorf("max length is %d chars", maxHostnameLength)
	}

	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return errors.New("empty hostname label")
		}

		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("label '%s' may not start or end with '-'", label)
		}

		for _, c := range label {
			if !((c >= 'a' && c <= 'z') ||
				(c >= 'A' && c <= 'Z') ||
				(c >= '0' && c <= '9') ||
				c == '-') {
				return errors.New(
					"may only contain alphanumeric, '-' and '.' chars",
				)
			}
		}
	}

	return nil
}
