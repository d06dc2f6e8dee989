package validation

import "regexp"

// ReadOnlyCheck reports whether a SQL string is safe to submit.
type ReadOnlyCheck func(query string) bool

// RE2's \b only knows ASCII word characters, so keyword boundaries are
// spelled out with Unicode letters and digits. A letter such as "é" next to a
// keyword keeps it part of a longer identifier.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`

	// separator within a single line, used inside GRANT and REVOKE spans
	lineSep = `[^\p{L}\p{N}_\n]`
)

// Patterns that mark a query as mutating. Order is irrelevant to the result
// but kept stable for readability.
var nonReadOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + wordStart + `(INSERT|UPDATE|DELETE|CREATE|DROP|ALTER|MERGE|TRUNCATE)` + wordEnd),
	regexp.MustCompile(`(?i)` + wordStart + `GRANT(?:` + lineSep + `.*?)?` + lineSep + `TO` + wordEnd),
	regexp.MustCompile(`(?i)` + wordStart + `REVOKE(?:` + lineSep + `.*?)?` + lineSep + `FROM` + wordEnd),
}

// IsReadOnly reports whether query contains none of the mutating keyword
// patterns.
//
// This is a keyword denylist, not a SQL parser. It rejects read-only queries
// that merely mention a keyword (inside a string literal, a comment, or a
// column named "update"), and it accepts mutations that avoid the literal
// keywords, e.g. CALL on a stored procedure or EXECUTE IMMEDIATE on a built
// string. A GRANT or REVOKE split across lines is not matched either, since
// the spans do not cross newlines.
func IsReadOnly(query string) bool {
	for _, pattern := range nonReadOnlyPatterns {
		if pattern.MatchString(query) {
			return false
		}
	}
	return true
}
