// parser.go — token stream to AST
//
// OVERVIEW
// --------
// The parser consumes the lexer's token slice left to right and produces a
// *Program whose body interleaves JsChunk and CreateElement nodes. It runs
// in O(tokens).
//
// Node construction rules:
//
//	JS                  → JsChunk, verbatim
//	E_START … E_END     → CreateElement: tag stripped of '<' '>' '/',
//	                      empty name replaced by the fragment pragma,
//	                      IsClass per IsClassName
//	E_PROP [+ value]    → Prop; bare props keep a nil Value
//	E_CHILD_TEXT        → Text
//	E_CHILD_WHITESPACE  → Whitespace
//	E_CHILD_JS          → JsChunk, trimmed, one brace stripped each side
//	E_CHILD_JS_START …
//	  … E_CHILD_JS_END  → ExprList of JS fragments and elements
//
// A prop value can itself be an element or an ExprList. The token stream
// does not distinguish "value element" from "first child element" after a
// bare prop, so the parser checks the original source: the value binding is
// taken only when a '=' sits directly between the prop name and the start
// of the candidate value token.
//
// Validation: a non-empty closing name must equal the opening name
// (mismatched tags); the global E_START/E_END counts must agree at the end
// of the tokens (unbalanced elements, reported without a position because
// none is known). Any token kind out of place is a ParserOrder error and
// indicates a lexer bug.
package jsx

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reJsxPragma     = regexp.MustCompile(`/[/*]\**[ \t]*@jsx[ \t]+([A-Za-z_$][A-Za-z0-9_$.]*)`)
	reJsxFragPragma = regexp.MustCompile(`/[/*]\**[ \t]*@jsxFrag[ \t]+([A-Za-z_$][A-Za-z0-9_$.]*)`)
)

// jsxPragmaOf extracts a per-source "@jsx <name>" override from a comment
// lead-in, scanning the original (unstripped) input.
func jsxPragmaOf(src string) (string, bool) {
	m := reJsxPragma.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// jsxFragPragmaOf extracts a per-source "@jsxFrag <name>" override.
func jsxFragPragmaOf(src string) (string, bool) {
	m := reJsxFragPragma.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse builds a Program from tokens. input is the original source; it is
// consulted for the @jsxFrag hint and for prop-value binding, never
// re-lexed.
func Parse(tokens []Token, input string) (*Program, error) {
	return parseTokens(tokens, input, DefaultPragmaFrag)
}

func parseTokens(tokens []Token, input, pragmaFrag string) (*Program, error) {
	if frag, ok := jsxFragPragmaOf(input); ok {
		pragmaFrag = frag
	}

	starts, ends := 0, 0
	for _, t := range tokens {
		switch t.Type {
		case E_START:
			starts++
		case E_END:
			ends++
		}
	}
	if starts != ends {
		return nil, newErrorNoPos(ErrParserUnbalanced, "unbalanced elements")
	}

	p := &parser{toks: tokens, src: input, pragmaFrag: pragmaFrag}
	prog := &Program{}
	for !p.atEnd() {
		n, err := p.walk(0)
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, n)
	}
	return prog, nil
}

type parser struct {
	toks       []Token
	i          int
	src        string
	pragmaFrag string
}

func (p *parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) next() Token {
	t := p.toks[p.i]
	p.i++
	return t
}

func (p *parser) errOrder(t Token) error {
	return newError(ErrParserOrder, fmt.Sprintf("unexpected token %s", t.Type), p.src, t.Pos)
}

// walk dispatches on the current token.
func (p *parser) walk(depth int) (Node, error) {
	t := p.peek()
	switch t.Type {
	case JS:
		p.i++
		return &JsChunk{Text: t.Value}, nil
	case E_START:
		return p.element(depth)
	case E_CHILD_JS_START:
		return p.exprList(depth)
	default:
		return nil, p.errOrder(t)
	}
}

// tagName strips the markup bytes from an E_START or E_END lexeme.
func tagName(lexeme string) string {
	return strings.Trim(lexeme, "</> \t\r\n")
}

// element consumes E_START through its matching E_END.
func (p *parser) element(depth int) (*CreateElement, error) {
	start := p.next()
	name := tagName(start.Value)
	el := &CreateElement{Name: name, Depth: depth}
	if name == "" {
		el.Name = p.pragmaFrag
	}
	el.IsClass = IsClassName(el.Name)

	for !p.atEnd() {
		t := p.peek()
		switch t.Type {
		case E_END:
			p.i++
			closing := tagName(t.Value)
			if closing != "" && closing != name {
				return nil, newError(ErrParserMismatch,
					fmt.Sprintf("mismatched tags: %q closed by %q", name, closing), p.src, t.Pos)
			}
			return el, nil
		case E_PROP:
			p.i++
			prop, err := p.prop(t, depth)
			if err != nil {
				return nil, err
			}
			el.Props = append(el.Props, prop)
		case E_CHILD_TEXT:
			p.i++
			el.Children = append(el.Children, &Text{Value: t.Value})
		case E_CHILD_WHITESPACE:
			p.i++
			el.Children = append(el.Children, &Whitespace{Value: t.Value})
		case E_CHILD_JS:
			p.i++
			if txt := childJsText(t.Value); txt != "" {
				el.Children = append(el.Children, &JsChunk{Text: txt})
			}
		case E_CHILD_JS_START:
			n, err := p.exprList(depth)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, n)
		case E_START:
			child, err := p.element(depth + 1)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		default:
			return nil, p.errOrder(t)
		}
	}
	return nil, newErrorNoPos(ErrParserUnbalanced, "unbalanced elements")
}

// prop consumes an optional value for the E_PROP just read.
func (p *parser) prop(nameTok Token, depth int) (Prop, error) {
	prop := Prop{Name: nameTok.Value}
	if p.atEnd() {
		return prop, nil
	}
	v := p.peek()
	switch v.Type {
	case E_VALUE:
		p.i++
		prop.Value = &JsChunk{Text: v.Value}
	case E_START:
		if p.valueBinding(nameTok, v) {
			el, err := p.element(depth + 1)
			if err != nil {
				return prop, err
			}
			prop.Value = el
		}
	case E_CHILD_JS_START:
		if p.valueBinding(nameTok, v) {
			n, err := p.exprList(depth)
			if err != nil {
				return prop, err
			}
			prop.Value = n
		}
	}
	return prop, nil
}

// valueBinding reports whether next is the value of the prop ending at
// nameTok.Pos: true when a single '=' separates them in the source.
func (p *parser) valueBinding(nameTok, next Token) bool {
	if nameTok.Pos < 0 || next.Pos < 0 {
		return false
	}
	valStart := next.Pos - len(next.Value)
	eq := nameTok.Pos
	if eq < 0 || eq >= len(p.src) || valStart != eq+1 {
		return false
	}
	return p.src[eq] == '='
}

// childJsText trims an E_CHILD_JS lexeme and strips exactly one leading '{'
// and one trailing '}' if present.
func childJsText(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "}") {
		s = s[:len(s)-1]
	}
	return s
}

// exprList collects the heterogeneous run E_CHILD_JS_START, elements and
// JS fragments, through E_CHILD_JS_END, into a single expression node. The
// leading '{' of the first fragment and the trailing '}' of the last are
// dropped so the parts concatenate back into the inline expression.
func (p *parser) exprList(depth int) (Node, error) {
	first := p.next()
	list := &ExprList{}
	txt := first.Value
	if strings.HasPrefix(txt, "{") {
		txt = txt[1:]
	}
	if txt != "" {
		list.Parts = append(list.Parts, &JsChunk{Text: txt})
	}
	for !p.atEnd() {
		t := p.peek()
		switch t.Type {
		case E_START:
			el, err := p.element(depth + 1)
			if err != nil {
				return nil, err
			}
			list.Parts = append(list.Parts, el)
		case E_CHILD_JS_START:
			p.i++
			if t.Value != "" {
				list.Parts = append(list.Parts, &JsChunk{Text: t.Value})
			}
		case E_CHILD_JS_END:
			p.i++
			end := t.Value
			if strings.HasSuffix(end, "}") {
				end = end[:len(end)-1]
			}
			if end != "" {
				list.Parts = append(list.Parts, &JsChunk{Text: end})
			}
			return list, nil
		default:
			return nil, p.errOrder(t)
		}
	}
	return nil, newErrorNoPos(ErrParserUnbalanced, "unbalanced elements")
}
