package version

import "fmt"

const (
	major = 0
	minor = 1
	patch = 0
)

func String() string {
	return fmt.Sprintf("v%d.%d.%d", major, minor, patch)
}
