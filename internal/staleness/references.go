package staleness

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
)

// InlineAttr marks a link or script element for inlining.
const InlineAttr = "inline"

// InlineRef reports the referenced path of an inlining marker. The token
// must come from a tokenizer, so tag and attribute names are lower case.
func InlineRef(t html.Token) (string, bool) {
	if t.Type != html.StartTagToken && t.Type != html.SelfClosingTagToken {
		return "", false
	}

	var refAttr string
	switch t.Data {
	case "link":
		refAttr = "href"
	case "script":
		refAttr = "src"
	default:
		return "", false
	}

	marked := false
	ref := ""
	for _, a := range t.Attr {
		switch a.Key {
		case InlineAttr:
			marked = true
		case refAttr:
			ref = a.Val
		}
	}
	if !marked || ref == "" {
		return "", false
	}
	return ref, true
}

// ResolveRef maps a reference onto the filesystem below root, dropping one
// leading slash so root-absolute references stay inside root.
func ResolveRef(root, ref string) string {
	ref = strings.TrimPrefix(ref, "/")
	return filepath.Join(root, filepath.FromSlash(ref))
}

// ExtractReferences returns every inlined reference in text, in document order.
func ExtractReferences(text string) []string {
	var refs []string
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return refs
		case html.StartTagToken:
			if ref, ok := InlineRef(z.Token()); ok {
				refs = append(refs, ref)
			}
		case html.SelfClosingTagToken:
			tok := z.Token()
			if ref, ok := InlineRef(tok); ok {
				refs = append(refs, ref)
			}
			// A self-closing script has no body to skip.
			if tok.Data == "script" {
				z.NextIsNotRawText()
			}
		}
	}
}

// DecodeText decodes b as UTF-8, dropping a leading byte order mark and
// replacing invalid sequences with U+FFFD.
func DecodeText(b []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(out)
}
