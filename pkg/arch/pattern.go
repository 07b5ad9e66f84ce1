package arch

import (
	"regexp"
	"strings"
	"sync"
)

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// MatchPattern reports whether s matches a go-command style pattern, where
// "..." matches any string and a trailing "/..." also matches the prefix
// itself ("net/..." matches "net" and "net/http").
func MatchPattern(pattern, s string) bool {
	if !strings.Contains(pattern, "...") {
		return pattern == s
	}
	if prefix, ok := strings.CutSuffix(pattern, "/..."); ok && MatchPattern(prefix, s) {
		return true
	}
	return compilePattern(pattern).MatchString(s)
}

func compilePattern(pattern string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re
	}
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\.\.\.`, `.*`) + "$"
	re := regexp.MustCompile(expr)
	patternCache[pattern] = re
	return re
}

func matchAny(patterns []string, s string) (string, bool) {
	for _, p := range patterns {
		if MatchPattern(p, s) {
			return p, true
		}
	}
	return "", false
}

func quoteList(items []string) string {
	q := make([]string, len(items))
	for i, it := range items {
		q[i] = "'" + it + "'"
	}
	return strings.Join(q, ", ")
}
