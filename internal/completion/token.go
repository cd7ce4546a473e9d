package completion

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/oakwood-commons/aqx/internal/query"
)

// openValueTail matches a condition whose quoted value is still open at the
// end of the input.
var openValueTail = regexp.MustCompile(`(?s)` + identifier + `(?:==|!=|=)"(?:[^"\\]|\\.)*\\?$`)

// CurrentToken returns the token the suggestion rules operate on.
func CurrentToken(input string) string {
	return input[TokenStart(input):]
}

// TokenStart returns the byte offset where the current token begins.
//
// Normally that is just past the last whitespace. When the input ends with a
// complete condition, or inside a quoted value that is still open, the token
// begins at that condition's identifier so values containing spaces are
// treated as one condition. Quote state is taken from the scanner's matches,
// so a stray quote earlier in the input does not shift it.
func TokenStart(input string) int {
	done := 0
	if conds := query.Scan(input); len(conds) > 0 {
		last := conds[len(conds)-1]
		if last.End == len(input) {
			return last.Start
		}
		done = last.End
	}
	if loc := openValueTail.FindStringIndex(input[done:]); loc != nil {
		return done + loc[0]
	}
	return max(afterLastSpace(input), done)
}

func afterLastSpace(input string) int {
	for i := len(input); i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		if unicode.IsSpace(r) {
			return i
		}
		i -= size
	}
	return 0
}
