// entities.go — HTML entity decoding for child text
package jsx

import "golang.org/x/net/html"

// EntityDecoder decodes HTML entities ("&amp;", "&#38;") in element child
// text before it is JSON-encoded. The code generator consults it only when
// the text contains '&'.
type EntityDecoder func(string) string

// DecodeEntities is the default decoder, backed by golang.org/x/net/html.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// PassthroughEntities leaves text unchanged. Hosts that must not resolve
// entities can set it on Options.Entities; child text then reaches the
// output verbatim (JSON-encoded but undecoded).
func PassthroughEntities(s string) string {
	return s
}
