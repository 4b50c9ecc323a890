package puzzledata

// NotFound is returned by MatchDelim and MatchToken when no closing delimiter exists.
const NotFound = -1

// MatchDelim returns the byte offset of the delimiter that closes the one at start,
// counting nested occurrences of the same pair. It is the byte-offset form of
// MatchToken for callers holding raw text; Extract works on tokens and uses MatchToken. Delimiters inside string literals and
// comments are ignored. It returns NotFound when text[start] is not the open delimiter,
// when the text ends before the depth returns to zero, or when a string literal or
// comment is left unterminated.
func MatchDelim(text string, start int, open, close byte) int {
	if start < 0 || start >= len(text) || text[start] != open {
		return NotFound
	}
	l := newLexer(text, start)
	depth := 0
	for {
		tok, err := l.next()
		if err != nil || tok.Kind == TokenEOF {
			return NotFound
		}
		switch {
		case tok.Is(open):
			depth++
		case tok.Is(close):
			depth--
			if depth == 0 {
				return tok.Offset
			}
		}
	}
}

// MatchToken is the token-level form of MatchDelim: it returns the index of the token
// closing toks[start], or NotFound.
func MatchToken(toks []Token, start int, open, close byte) int {
	if start < 0 || start >= len(toks) || !toks[start].Is(open) {
		return NotFound
	}
	depth := 0
	for i := start; i < len(toks); i++ {
		switch {
		case toks[i].Is(open):
			depth++
		case toks[i].Is(close):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}
