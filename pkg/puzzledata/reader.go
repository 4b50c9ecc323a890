package puzzledata

// Value is a node read from an object literal: *Object, []Value, string,
// Number or Ident.
type Value any

// Number is a numeric literal kept in its source form.
type Number string

// Ident is a bare identifier used as a value, such as true, null or a variable name.
type Ident string

// Object is an object literal with its keys kept in source order.
type Object struct {
	Keys   []string
	Fields map[string]Value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Fields[key]
	return v, ok
}

// String returns the string stored under key, if the value is a string.
func (o *Object) String(key string) (string, bool) {
	v, ok := o.Fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (o *Object) set(key string, v Value) {
	if _, exists := o.Fields[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Fields[key] = v
}

// reader is a recursive-descent reader over a token slice.
type reader struct {
	src  string
	toks []Token
	pos  int
}

// ReadValue reads exactly one value spanning toks. src is only used for error positions.
func ReadValue(src string, toks []Token) (Value, error) {
	r := &reader{src: src, toks: toks}
	v, err := r.value()
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.toks) {
		return nil, r.errorf(r.toks[r.pos], "unexpected %s %q after value", r.toks[r.pos].Kind, r.toks[r.pos].Value)
	}
	return v, nil
}

func (r *reader) peek() (Token, bool) {
	if r.pos >= len(r.toks) {
		return Token{}, false
	}
	return r.toks[r.pos], true
}

func (r *reader) errorf(tok Token, format string, args ...any) *SyntaxError {
	return newSyntaxError(r.src, tok.Offset, format, args...)
}

func (r *reader) eofError() *SyntaxError {
	offset := len(r.src)
	if n := len(r.toks); n > 0 {
		offset = r.toks[n-1].Offset
	}
	return newSyntaxError(r.src, offset, "unexpected end of input")
}

func (r *reader) value() (Value, error) {
	tok, ok := r.peek()
	if !ok {
		return nil, r.eofError()
	}
	switch {
	case tok.Is('{'):
		return r.object()
	case tok.Is('['):
		return r.array()
	case tok.Kind == TokenString:
		r.pos++
		return tok.Value, nil
	case tok.Kind == TokenNumber:
		r.pos++
		return Number(tok.Value), nil
	case tok.Kind == TokenIdent:
		r.pos++
		return Ident(tok.Value), nil
	case tok.Is('-') || tok.Is('+'):
		r.pos++
		next, ok := r.peek()
		if !ok || next.Kind != TokenNumber {
			return nil, r.errorf(tok, "expected number after %q", tok.Value)
		}
		r.pos++
		return Number(tok.Value + next.Value), nil
	}
	return nil, r.errorf(tok, "unexpected %s %q", tok.Kind, tok.Value)
}

func (r *reader) object() (*Object, error) {
	open := r.toks[r.pos]
	r.pos++
	obj := &Object{Fields: make(map[string]Value)}
	for {
		tok, ok := r.peek()
		if !ok {
			return nil, r.errorf(open, "object is never closed")
		}
		if tok.Is('}') {
			r.pos++
			return obj, nil
		}
		if tok.Kind != TokenString && tok.Kind != TokenIdent && tok.Kind != TokenNumber {
			return nil, r.errorf(tok, "expected object key, got %s %q", tok.Kind, tok.Value)
		}
		r.pos++
		colon, ok := r.peek()
		if !ok || !colon.Is(':') {
			return nil, r.errorf(tok, "expected ':' after key %q", tok.Value)
		}
		r.pos++
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		obj.set(tok.Value, v)

		sep, ok := r.peek()
		if !ok {
			return nil, r.errorf(open, "object is never closed")
		}
		switch {
		case sep.Is(','):
			r.pos++
		case sep.Is('}'):
		default:
			return nil, r.errorf(sep, "expected ',' or '}', got %q", sep.Value)
		}
	}
}

func (r *reader) array() ([]Value, error) {
	open := r.toks[r.pos]
	r.pos++
	items := []Value{}
	for {
		tok, ok := r.peek()
		if !ok {
			return nil, r.errorf(open, "array is never closed")
		}
		if tok.Is(']') {
			r.pos++
			return items, nil
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		sep, ok := r.peek()
		if !ok {
			return nil, r.errorf(open, "array is never closed")
		}
		switch {
		case sep.Is(','):
			r.pos++
		case sep.Is(']'):
		default:
			return nil, r.errorf(sep, "expected ',' or ']', got %q", sep.Value)
		}
	}
}

// FindString searches v depth-first in source order for the first field named key
// holding a string.
func FindString(v Value, key string) (string, bool) {
	found, ok := find(v, key, func(x Value) bool {
		_, isStr := x.(string)
		return isStr
	})
	if !ok {
		return "", false
	}
	return found.(string), true
}

// FindArray searches v depth-first in source order for the first field named key
// holding an array.
func FindArray(v Value, key string) ([]Value, bool) {
	found, ok := find(v, key, func(x Value) bool {
		_, isArr := x.([]Value)
		return isArr
	})
	if !ok {
		return nil, false
	}
	return found.([]Value), true
}

func find(v Value, key string, accept func(Value) bool) (Value, bool) {
	switch node := v.(type) {
	case *Object:
		for _, k := range node.Keys {
			child := node.Fields[k]
			if k == key && accept(child) {
				return child, true
			}
			if found, ok := find(child, key, accept); ok {
				return found, true
			}
		}
	case []Value:
		for _, child := range node {
			if found, ok := find(child, key, accept); ok {
				return found, true
			}
		}
	}
	return nil, false
}
