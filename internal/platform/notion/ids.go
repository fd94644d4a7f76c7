package notion

import (
	"regexp"
	"strings"

	"github.com/soulscript/notionkit/internal/schema"
)

var idPattern = regexp.MustCompile(`([0-9a-fA-F]{32})$`)

// NormalizeID accepts a page or database ID in dashed or compact form, or a
// share URL ending in one, and returns the dashed lowercase form.
func NormalizeID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &schema.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")

	compact := strings.ReplaceAll(s, "-", "")
	m := idPattern.FindStringSubmatch(compact)
	if m == nil {
		return "", &schema.ValidationError{Field: "id", Reason: "not a 32-character hex identifier or share URL"}
	}
	hex := strings.ToLower(m[1])
	return hex[0:8] + "-" + hex[8:12] + "-" + hex[12:16] + "-" + hex[16:20] + "-" + hex[20:], nil
}
