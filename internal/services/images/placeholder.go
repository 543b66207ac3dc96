package images

import (
	"encoding/base64"
	"strings"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="450" viewBox="0 0 300 450">` +
	`<rect width="300" height="450" fill="#1F2937"/>` +
	`<rect x="90" y="160" width="120" height="80" rx="8" fill="#111827" stroke="#4B5563" stroke-width="4"/>` +
	`<polygon points="138,182 138,218 168,200" fill="#6B7280"/>` +
	`<text x="150" y="300" text-anchor="middle" fill="#9CA3AF" font-family="Arial, sans-serif" font-size="16" font-weight="bold">No Image Available</text>` +
	`</svg>`

// Placeholder is the self-contained image used when no provider finds a poster
var Placeholder = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(placeholderSVG))

// IsPlaceholder reports whether ref is empty or the built-in placeholder
func IsPlaceholder(ref string) bool {
	return ref == "" || ref == Placeholder || strings.HasPrefix(ref, "data:image/svg+xml")
}
