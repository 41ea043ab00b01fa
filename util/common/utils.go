package common

import (
	"github.com/inhies/go-bytesize"
)

// GetSize renders a byte count for tables. Unknown sizes render as "-".
func GetSize(sizeVal int64) string {
	if sizeVal <= 0 {
		return "-"
	}
	return bytesize.New(float64(sizeVal)).String()
}
