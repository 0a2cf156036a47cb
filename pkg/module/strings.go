package module

import (
	"fmt"
	"io"
	"strings"
)

// readCString reads bytes from r until a null terminator and returns the
// collected text without the terminator.
func readCString(r io.Reader) (string, error) {
	var out []byte
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", fmt.Errorf("read string: %w", err)
		}
		if b[0] == 0 {
			return string(out), nil
		}
		out = append(out, b[0])
	}
}

// trimNul drops trailing null padding from fixed-width text fields.
func trimNul(s string) string {
	return strings.TrimRight(s, "\x00")
}
