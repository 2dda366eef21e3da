package firmware

import (
	"strconv"
	"strings"
	"unicode"
)

// CompareVersions orders dot-separated numeric versions. Missing trailing segments
// count as zero. When every numeric segment ties the raw strings are compared, so
// "1.0" and "1.0.0" still order deterministically. Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	pa, pb := versionSegments(a), versionSegments(b)
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return strings.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
}

// versionSegments parses "v1.2.3-beta" into [1 2 3]. A segment counts as its
// leading digits, or zero when it has none.
func versionSegments(v string) []int {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	if v == "" {
		return nil
	}
	pieces := strings.Split(v, ".")
	out := make([]int, len(pieces))
	for i, p := range pieces {
		end := strings.IndexFunc(p, func(r rune) bool { return !unicode.IsDigit(r) })
		if end == -1 {
			end = len(p)
		}
		n, err := strconv.Atoi(p[:end])
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}
