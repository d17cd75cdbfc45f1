package assets

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

const maxBaseLength = 20

// Filename generates a collision-resistant name for an upload: the sanitized
// original base name, a nanosecond timestamp, and a random suffix, keeping
// the original extension.
func Filename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))

	var sanitized strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sanitized.WriteRune(r)
		default:
			sanitized.WriteRune('-')
		}
	}
	name := strings.Trim(sanitized.String(), "-")
	if len(name) > maxBaseLength {
		name = name[:maxBaseLength]
	}
	if name == "" {
		name = "upload"
	}

	return fmt.Sprintf("%s-%d-%09d%s", name, time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
}
