package landing

import "fmt"

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders bytes in binary units with two decimals, picking the
// largest unit that keeps the value at or above 1. Zero is "0 B".
func FormatSize(bytes uint64) string {
	if bytes == 0 {
		return "0 B"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}
