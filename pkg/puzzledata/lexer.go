package puzzledata

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenString
	TokenIdent
	TokenNumber
	TokenPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenString:
		return "string"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenPunct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit of the source text.
// Value holds the unquoted contents for strings and the raw text otherwise.
type Token struct {
	Kind   TokenKind
	Value  string
	Offset int
}

// Is reports whether the token is the punctuation character c.
func (t Token) Is(c byte) bool {
	return t.Kind == TokenPunct && len(t.Value) == 1 && t.Value[0] == c
}

// SyntaxError describes malformed source text at a byte offset.
type SyntaxError struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func newSyntaxError(src string, offset int, format string, args ...any) *SyntaxError {
	line, col := position(src, offset)
	return &SyntaxError{Offset: offset, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// position converts a byte offset into a 1-based line and rune column.
func position(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:]) + 1
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string, pos int) *lexer {
	return &lexer{src: src, pos: pos}
}

// next returns the next token, skipping whitespace and comments.
func (l *lexer) next() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Offset: len(l.src)}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '"' || c == '\'' || c == '`':
		v, err := l.readString(c)
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokenString, Value: v, Offset: start}, nil
	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && isNumberByte(l.src[l.pos]) {
			l.pos++
		}
		return Token{Kind: TokenNumber, Value: l.src[start:l.pos], Offset: start}, nil
	case c < utf8.RuneSelf && !isIdentByte(c):
		l.pos++
		return Token{Kind: TokenPunct, Value: l.src[start:l.pos], Offset: start}, nil
	}

	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r < utf8.RuneSelf {
			if !isIdentByte(byte(r)) {
				break
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start {
		// A lone non-letter rune such as an emoji outside a string.
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		return Token{Kind: TokenPunct, Value: l.src[start:l.pos], Offset: start}, nil
	}
	return Token{Kind: TokenIdent, Value: l.src[start:l.pos], Offset: start}, nil
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == 0xEF && strings.HasPrefix(l.src[l.pos:], "\uFEFF"):
			l.pos += len("\uFEFF")
		case strings.HasPrefix(l.src[l.pos:], "//"):
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end == -1 {
				l.pos = len(l.src)
			} else {
				l.pos += end + 1
			}
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end == -1 {
				return newSyntaxError(l.src, l.pos, "unterminated block comment")
			}
			l.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

// readString consumes a quoted literal and returns its unescaped value.
func (l *lexer) readString(quote byte) (string, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == quote:
			l.pos++
			return b.String(), nil
		case c == '\\':
			if l.pos+1 >= len(l.src) {
				return "", newSyntaxError(l.src, start, "unterminated string literal")
			}
			l.pos++
			l.readEscape(&b)
		case c == '\n' && quote != '`':
			return "", newSyntaxError(l.src, start, "newline in string literal")
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return "", newSyntaxError(l.src, start, "unterminated string literal")
}

// readEscape decodes the escape sequence whose backslash was just consumed.
func (l *lexer) readEscape(b *strings.Builder) {
	c := l.src[l.pos]
	l.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case 'u':
		if l.pos+4 <= len(l.src) {
			if n, err := strconv.ParseUint(l.src[l.pos:l.pos+4], 16, 32); err == nil {
				b.WriteRune(rune(n))
				l.pos += 4
				return
			}
		}
		b.WriteByte('u')
	default:
		b.WriteByte(c)
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
		(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '_'
}

// Tokenize lexes src into tokens. On a lexical error it returns the tokens read
// so far together with the error.
func Tokenize(src string) ([]Token, error) {
	return tokenizeFrom(src, 0)
}

func tokenizeFrom(src string, pos int) ([]Token, error) {
	l := newLexer(src, pos)
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return toks, err
		}
		if tok.Kind == TokenEOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
