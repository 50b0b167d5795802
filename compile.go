// compile.go — the four-stage pipeline behind one call
//
// Compile runs comment stripping, lexing, parsing and code generation over
// a single source string. Stages are pure with respect to each other's
// output and no state survives the call; two concurrent compiles share
// nothing but the options record.
//
// The lexer runs over the comment-stripped text, which has the same length
// as the input, so every byte offset it records resolves against the
// original source. The per-source pragma hints live inside comments, so they
// are read from the original input (not the stripped copy): the parser looks
// for @jsxFrag, and CompileWithOptions looks for @jsx and hands the result to
// the code generator:
//
//	// @jsx h
//	/* @jsxFrag Fragment */
package jsx

import "strings"

// Pipeline defaults.
const (
	DefaultPragma            = "React.createElement"
	DefaultPragmaFrag        = "React.Fragment"
	DefaultMaxRecursiveCalls = 1000
)

// Options configures a compile. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	Pragma            string        // element factory, default React.createElement
	PragmaFrag        string        // fragment identifier, default React.Fragment
	AddUseStrict      bool          // prefix "use strict"; when absent from output
	MaxRecursiveCalls int           // element recursion budget, default 1000
	Entities          EntityDecoder // nil selects DecodeEntities
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		Pragma:            DefaultPragma,
		PragmaFrag:        DefaultPragmaFrag,
		AddUseStrict:      true,
		MaxRecursiveCalls: DefaultMaxRecursiveCalls,
	}
}

// Compile translates JSX source to JavaScript with the default options.
func Compile(input string) (string, error) {
	return CompileWithOptions(input, DefaultOptions())
}

// CompileWithOptions translates JSX source to JavaScript. Errors are
// *CompileError values; no partial output is ever returned.
func CompileWithOptions(input string, opts Options) (string, error) {
	if opts.Pragma == "" {
		opts.Pragma = DefaultPragma
	}
	if opts.PragmaFrag == "" {
		opts.PragmaFrag = DefaultPragmaFrag
	}
	if opts.MaxRecursiveCalls <= 0 {
		opts.MaxRecursiveCalls = DefaultMaxRecursiveCalls
	}

	stripped := StripComments(input)

	tokens, err := NewLexerLimit(stripped, opts.MaxRecursiveCalls).Tokenize()
	if err != nil {
		return "", err
	}

	prog, err := parseTokens(tokens, input, opts.PragmaFrag)
	if err != nil {
		return "", err
	}

	pragma := opts.Pragma
	if p, ok := jsxPragmaOf(input); ok {
		pragma = p
	}
	out, err := generate(prog, pragma, opts.Entities)
	if err != nil {
		return "", err
	}

	if opts.AddUseStrict &&
		!strings.Contains(out, `"use strict"`) &&
		!strings.Contains(out, `'use strict'`) {
		out = "\"use strict\";\n" + out
	}
	return out, nil
}
