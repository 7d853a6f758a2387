package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteSize is a capacity in bytes.
type ByteSize uint64

const (
	KB ByteSize = 1024
	MB ByteSize = 1024 * KB
	GB ByteSize = 1024 * MB
)

// ParseByteSize parses size strings of the form "64kB", "8MB", "2GB" or a
// plain byte count. "0" parses to zero and is the sentinel callers use to
// omit a cache level entirely.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	mult := ByteSize(1)
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "kb"):
		mult = KB
		s = s[:len(s)-2]
	case strings.HasSuffix(lower, "mb"):
		mult = MB
		s = s[:len(s)-2]
	case strings.HasSuffix(lower, "gb"):
		mult = GB
		s = s[:len(s)-2]
	case strings.HasSuffix(lower, "b"):
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size string %q: %w", s, err)
	}
	return ByteSize(n) * mult, nil
}

// String renders the size with the largest exact unit.
func (b ByteSize) String() string {
	switch {
	case b >= GB && b%GB == 0:
		return fmt.Sprintf("%dGB", b/GB)
	case b >= MB && b%MB == 0:
		return fmt.Sprintf("%dMB", b/MB)
	case b >= KB && b%KB == 0:
		return fmt.Sprintf("%dkB", b/KB)
	default:
		return fmt.Sprintf("%dB", uint64(b))
	}
}
