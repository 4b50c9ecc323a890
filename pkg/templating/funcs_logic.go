package templating

import "strings"

// take returns at most n leading elements of s.
func take(n int, s []string) []string {
	if n < 0 {
		return nil
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// join concatenates the non-empty elements of parts with sep.
func join(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// maxHints is the number of clues listed per orientation.
func (tm *TemplateManager) maxHints() int {
	if tm.config.MaxHintsPerSection <= 0 {
		return 20
	}
	return tm.config.MaxHintsPerSection
}
