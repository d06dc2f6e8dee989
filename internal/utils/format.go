package utils

import "github.com/dustin/go-humanize"

// FormatBytes formats a byte count in human readable SI units
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.Bytes(uint64(-bytes))
	}
	return humanize.Bytes(uint64(bytes))
}
