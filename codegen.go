// codegen.go — AST to JavaScript
package jsx

import (
	"fmt"
	"strings"
)

/* ---------- tiny helpers ---------- */

// propsWidth is the concatenated-prop length past which props wrap one per
// line.
const propsWidth = 80

// quoteJSON renders s as a JSON string literal.
func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// endsOpen reports whether a JS fragment is syntactically waiting for a
// value, so that a following element concatenates onto it without a comma:
// cond && <X/>, cond ? <X/> : <Y/>, wrap(<X/>), return <X/>.
func endsOpen(js string) bool {
	t := strings.TrimRight(js, " \t\r\n")
	return strings.HasSuffix(t, "&&") ||
		strings.HasSuffix(t, "?") ||
		strings.HasSuffix(t, "(") ||
		strings.HasSuffix(t, ":") ||
		strings.HasSuffix(t, " return") ||
		t == "return"
}

// spreadExpr unwraps a "{...expr}" prop name into the spread "...expr".
func spreadExpr(p Prop) (string, bool) {
	if p.Value != nil {
		return "", false
	}
	n := strings.TrimSpace(p.Name)
	if !strings.HasPrefix(n, "{") || !strings.HasSuffix(n, "}") {
		return "", false
	}
	inner := strings.TrimSpace(n[1 : len(n)-1])
	if !strings.HasPrefix(inner, "...") {
		return "", false
	}
	return inner, true
}

/* ---------- generator ---------- */

type generator struct {
	pragma   string
	entities EntityDecoder
}

// Generate emits JavaScript for prog with the default pragma and entity
// decoder. The use-strict prefix is the facade's concern, not Generate's.
func Generate(prog *Program) (string, error) {
	return generate(prog, DefaultPragma, nil)
}

func generate(prog *Program, pragma string, entities EntityDecoder) (string, error) {
	if pragma == "" {
		pragma = DefaultPragma
	}
	if entities == nil {
		entities = DecodeEntities
	}
	g := &generator{pragma: pragma, entities: entities}
	var b strings.Builder
	for _, n := range prog.Body {
		switch t := n.(type) {
		case *JsChunk:
			b.WriteString(t.Text)
		case *CreateElement:
			s, err := g.element(t, false)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case *ExprList:
			s, err := g.exprList(t)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		default:
			return "", newErrorNoPos(ErrCodegenUnhandled, fmt.Sprintf("unhandled node %T", n))
		}
	}
	return b.String(), nil
}

// element renders one factory call. skipIndent suppresses the pretty
// newline-and-indent layout, for elements spliced into expressions.
func (g *generator) element(el *CreateElement, skipIndent bool) (string, error) {
	name := el.Name
	if !el.IsClass {
		name = quoteJSON(name)
	}
	props, err := g.propsExpr(el, skipIndent)
	if err != nil {
		return "", err
	}
	kids, err := g.childrenPart(el, skipIndent)
	if err != nil {
		return "", err
	}
	return g.pragma + "(" + name + ", " + props + kids + ")", nil
}

func (g *generator) propsExpr(el *CreateElement, skipIndent bool) (string, error) {
	if len(el.Props) == 0 {
		return "null", nil
	}
	parts := make([]string, 0, len(el.Props))
	for _, p := range el.Props {
		if sp, ok := spreadExpr(p); ok {
			parts = append(parts, sp)
			continue
		}
		key := p.Name
		if strings.Contains(key, "-") {
			key = quoteJSON(key)
		}
		val := "true"
		if p.Value != nil {
			v, err := g.valueExpr(p.Value)
			if err != nil {
				return "", err
			}
			val = v
		}
		parts = append(parts, key+": "+val)
	}
	joined := strings.Join(parts, ", ")
	if len(joined) <= propsWidth {
		return "{" + joined + "}", nil
	}
	if skipIndent {
		return "{ " + joined + "}", nil
	}
	indent := "\n" + strings.Repeat(" ", (el.Depth+3)*4)
	return "{" + indent + strings.Join(parts, ","+indent) + "}", nil
}

func (g *generator) valueExpr(v Node) (string, error) {
	switch t := v.(type) {
	case *JsChunk:
		return t.Text, nil
	case *CreateElement:
		return g.element(t, true)
	case *ExprList:
		return g.exprList(t)
	default:
		return "", newErrorNoPos(ErrCodegenUnhandled, fmt.Sprintf("unhandled prop value %T", v))
	}
}

// exprList concatenates JS fragments and elements back into one inline
// expression.
func (g *generator) exprList(list *ExprList) (string, error) {
	var b strings.Builder
	for _, part := range list.Parts {
		switch t := part.(type) {
		case *JsChunk:
			b.WriteString(t.Text)
		case *CreateElement:
			s, err := g.element(t, true)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		default:
			return "", newErrorNoPos(ErrCodegenUnhandled, fmt.Sprintf("unhandled expression part %T", part))
		}
	}
	return b.String(), nil
}

// childText entity-decodes and JSON-encodes one text child.
func (g *generator) childText(s string) string {
	if strings.Contains(s, "&") {
		s = g.entities(s)
	}
	return quoteJSON(s)
}

// childrenPart renders the child arguments, including their leading
// commas; an element without emittable children yields "".
//
// Two scans: the first drops pure-whitespace children at the edges and
// detects the inline special case, the second emits. A JS child that ends
// open (endsOpen) absorbs the following element with no comma: that
// element is the value of the pending expression.
func (g *generator) childrenPart(el *CreateElement, skipIndent bool) (string, error) {
	kids := el.Children
	for len(kids) > 0 {
		if _, ok := kids[0].(*Whitespace); !ok {
			break
		}
		kids = kids[1:]
	}
	for len(kids) > 0 {
		if _, ok := kids[len(kids)-1].(*Whitespace); !ok {
			break
		}
		kids = kids[:len(kids)-1]
	}
	if len(kids) == 0 {
		return "", nil
	}

	if s, ok, err := g.inlineChildren(kids); err != nil {
		return "", err
	} else if ok {
		return ", " + s, nil
	}

	var b strings.Builder
	openJS := false
	for idx, c := range kids {
		switch t := c.(type) {
		case *Whitespace:
			b.WriteString(", " + quoteJSON(t.Value))
			openJS = false
		case *Text:
			txt := t.Value
			if idx == 0 {
				txt = strings.TrimLeft(txt, " \t\r\n")
			}
			if idx == len(kids)-1 {
				txt = strings.TrimRight(txt, " \t\r\n")
			}
			b.WriteString(", " + g.childText(txt))
			openJS = false
		case *JsChunk:
			b.WriteString(", " + t.Text)
			openJS = endsOpen(t.Text)
		case *ExprList:
			s, err := g.exprList(t)
			if err != nil {
				return "", err
			}
			b.WriteString(", " + s)
			openJS = false
		case *CreateElement:
			s, err := g.element(t, skipIndent || openJS)
			if err != nil {
				return "", err
			}
			switch {
			case openJS:
				b.WriteString(s)
			case skipIndent:
				b.WriteString(", " + s)
			default:
				b.WriteString(",\n" + strings.Repeat(" ", (el.Depth+2)*4) + s)
			}
			openJS = false
		default:
			return "", newErrorNoPos(ErrCodegenUnhandled, fmt.Sprintf("unhandled child %T", c))
		}
	}
	return b.String(), nil
}

// inlineChildren handles the reconstructed inline expression: exactly one
// element plus paren-free JS fragments, beginning with a JS fragment, is
// joined with no commas (cond && <X/>).
func (g *generator) inlineChildren(kids []Node) (string, bool, error) {
	if len(kids) < 2 {
		return "", false, nil
	}
	if _, ok := kids[0].(*JsChunk); !ok {
		return "", false, nil
	}
	elements := 0
	for _, c := range kids {
		switch t := c.(type) {
		case *JsChunk:
			if strings.ContainsAny(t.Text, "()") {
				return "", false, nil
			}
		case *CreateElement:
			elements++
		default:
			return "", false, nil
		}
	}
	if elements != 1 {
		return "", false, nil
	}
	var b strings.Builder
	for _, c := range kids {
		switch t := c.(type) {
		case *JsChunk:
			b.WriteString(t.Text)
		case *CreateElement:
			s, err := g.element(t, true)
			if err != nil {
				return "", false, err
			}
			b.WriteString(s)
		}
	}
	return b.String(), true, nil
}
