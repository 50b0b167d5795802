// lexer_test.go
package jsx

import (
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v\nsource:\n%s", err, src)
	}
	return ts
}

func kindsOf(tokens []Token) []TokenType {
	out := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}

func wantKinds(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotKinds := kindsOf(got)
	if !reflect.DeepEqual(gotKinds, want) {
		t.Fatalf("\nsource:\n%s\nwant kinds:\n%v\ngot kinds:\n%v\n", src, want, gotKinds)
	}
	return got
}

func Test_Lexer_SimpleElement(t *testing.T) {
	src := `const x = <div id="a">hi</div>;`
	got := wantKinds(t, src, []TokenType{
		JS, E_START, E_PROP, E_VALUE, E_CHILD_TEXT, E_END, JS,
	})
	if got[1].Value != "<div" {
		t.Fatalf("E_START lexeme: %q", got[1].Value)
	}
	if got[2].Value != "id" {
		t.Fatalf("E_PROP lexeme: %q", got[2].Value)
	}
	if got[3].Value != `"a"` {
		t.Fatalf("E_VALUE not JSON-encoded: %q", got[3].Value)
	}
	if got[4].Value != "hi" {
		t.Fatalf("E_CHILD_TEXT lexeme: %q", got[4].Value)
	}
	if got[5].Value != "</div>" {
		t.Fatalf("E_END lexeme: %q", got[5].Value)
	}
}

func Test_Lexer_SelfClosing_AtEndOfInput(t *testing.T) {
	got := wantKinds(t, `<br/>`, []TokenType{E_START, E_END})
	if got[1].Value != "/>" {
		t.Fatalf("self-closing E_END lexeme: %q", got[1].Value)
	}
	if got[1].Pos != -1 {
		t.Fatalf("self-closing E_END must carry a null position, got %d", got[1].Pos)
	}
}

func Test_Lexer_LessThan_IsExpression(t *testing.T) {
	cases := []string{
		`a<b?c:d`,
		`if (a < b) { f(); }`,
		`for (i = 0; i<n; i++) { g(); }`,
		`const s = "<div>";`,
	}
	for _, src := range cases {
		wantKinds(t, src, []TokenType{JS})
	}
}

func Test_Lexer_Fragment(t *testing.T) {
	got := wantKinds(t, `<>x</>`, []TokenType{E_START, E_CHILD_TEXT, E_END})
	if got[0].Value != "<" {
		t.Fatalf("fragment E_START lexeme: %q", got[0].Value)
	}
	if got[2].Value != "</>" {
		t.Fatalf("fragment E_END lexeme: %q", got[2].Value)
	}
}

func Test_Lexer_BareAndSpreadProps(t *testing.T) {
	got := wantKinds(t, `<input disabled {...rest}/>`, []TokenType{
		E_START, E_PROP, E_PROP, E_END,
	})
	if got[1].Value != "disabled" {
		t.Fatalf("bare prop lexeme: %q", got[1].Value)
	}
	if got[2].Value != "{...rest}" {
		t.Fatalf("spread prop lexeme: %q", got[2].Value)
	}
}

func Test_Lexer_SingleQuoted_Value(t *testing.T) {
	got := wantKinds(t, `<a b='c'/>`, []TokenType{E_START, E_PROP, E_VALUE, E_END})
	if got[2].Value != `"c"` {
		t.Fatalf("single-quoted value not JSON-encoded: %q", got[2].Value)
	}
}

func Test_Lexer_NestedExpressionChildren(t *testing.T) {
	src := `<ul>{items.map(i => <li key={i}>{i}</li>)}</ul>`
	got := wantKinds(t, src, []TokenType{
		E_START,          // <ul
		E_CHILD_JS_START, // {items.map(i =>
		E_START,          // <li
		E_PROP,           // key
		E_VALUE,          // i
		E_CHILD_JS,       // {i}
		E_END,            // </li>
		E_CHILD_JS_END,   // )}
		E_END,            // </ul>
	})
	if got[1].Value != "{items.map(i => " {
		t.Fatalf("E_CHILD_JS_START lexeme: %q", got[1].Value)
	}
	if got[4].Value != "i" {
		t.Fatalf("E_VALUE expression: %q", got[4].Value)
	}
	if got[5].Value != "{i}" {
		t.Fatalf("E_CHILD_JS lexeme keeps braces: %q", got[5].Value)
	}
	if got[7].Value != ")}" {
		t.Fatalf("E_CHILD_JS_END lexeme: %q", got[7].Value)
	}
}

func Test_Lexer_WhitespaceChildren(t *testing.T) {
	src := "<div>\n  <a/>\n</div>"
	wantKinds(t, src, []TokenType{
		E_START, E_CHILD_WHITESPACE, E_START, E_END, E_CHILD_WHITESPACE, E_END,
	})
}

func Test_Lexer_Balance_Property(t *testing.T) {
	cases := []string{
		`<div/>`,
		`<div><span/></div>`,
		`const a = <><X/><Y/></>;`,
		`<ul>{items.map(i => <li key={i}>{i}</li>)}</ul>`,
		`<Foo icon=<Icon/> />`,
	}
	for _, src := range cases {
		starts, ends := 0, 0
		for _, tok := range toks(t, src) {
			switch tok.Type {
			case E_START:
				starts++
			case E_END:
				ends++
			}
		}
		if starts != ends {
			t.Fatalf("unbalanced tokens for %q: %d starts, %d ends", src, starts, ends)
		}
	}
}

func Test_Lexer_StraySlash_Fails(t *testing.T) {
	_, err := Tokenize(`<div /x>`)
	if err == nil {
		t.Fatalf("expected error for stray '/'")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrLexerSyntax {
		t.Fatalf("expected LexerSyntax error, got %v", err)
	}
	want := "unexpected '/' inside element tag at Line #: 1, Column #: 6, Line: <div /x>"
	if ce.Error() != want {
		t.Fatalf("error message:\ngot:  %q\nwant: %q", ce.Error(), want)
	}
}

func Test_Lexer_RecursionLimit(t *testing.T) {
	_, err := NewLexerLimit(`<a><b><c/></b></a>`, 2).Tokenize()
	if err == nil {
		t.Fatalf("expected recursion-limit error")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrLexerRuntime {
		t.Fatalf("expected LexerRuntime error, got %v", err)
	}
}

func Test_Lexer_PropElementValue(t *testing.T) {
	wantKinds(t, `<Foo icon=<Icon/> x="1"/>`, []TokenType{
		E_START, // <Foo
		E_PROP,  // icon
		E_START, // <Icon
		E_END,   // />
		E_PROP,  // x
		E_VALUE, // "1"
		E_END,   // />
	})
}

func Test_Lexer_PropExpressionWithElement(t *testing.T) {
	wantKinds(t, `<Foo render={() => <X/>}/>`, []TokenType{
		E_START,          // <Foo
		E_PROP,           // render
		E_CHILD_JS_START, // {() =>
		E_START,          // <X
		E_END,            // />
		E_CHILD_JS_END,   // }
		E_END,            // />
	})
}
