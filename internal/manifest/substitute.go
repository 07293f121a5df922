// Package manifest renders Kubernetes deployment configurations from
// embedded templates, laid out per deployment method.
package manifest

import "regexp"

// tokenPattern matches ${NAME} placeholders. NAME is an identifier.
var tokenPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute replaces ${NAME} tokens with their values. Unknown tokens pass
// through unchanged, so substitution is total and idempotent once every
// known token is resolved.
func Substitute(text string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// Tokens lists the placeholder names in text, in order of first appearance.
func Tokens(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
