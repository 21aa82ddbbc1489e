package discovery

import (
	"strings"
)

// sampleIndicators mark files that ship alongside a release but are not the
// release itself.
var sampleIndicators = []string{
	"sample",
	"trailer",
	"proof",
}

// IsSampleFile checks if a filename indicates it's a sample file.
func IsSampleFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, indicator := range sampleIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}
