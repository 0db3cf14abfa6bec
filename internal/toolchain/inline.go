package toolchain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/elementbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/elementbuild/internal/staleness"
)

// HTMLInliner embeds the files referenced by inlining markers. Markup that
// is not a marker is copied byte for byte.
type HTMLInliner struct {
	root string
}

// NewHTMLInliner resolves references below root.
func NewHTMLInliner(root string) *HTMLInliner {
	if root == "" {
		root = "."
	}
	return &HTMLInliner{root: root}
}

// Inline implements Inliner. A script marker becomes a script element with
// the file contents, keeping its other attributes; a link marker becomes a
// style element, keeping attributes other than rel and href. A reference
// that cannot be read fails the whole document.
func (h *HTMLInliner) Inline(doc []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(doc))

	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}

		// Raw is only valid until the next call to Next.
		raw = append([]byte(nil), raw...)
		tok := z.Token()
		ref, ok := staleness.InlineRef(tok)
		if !ok {
			out.Write(raw)
			if tt == html.SelfClosingTagToken && tok.Data == "script" {
				z.NextIsNotRawText()
			}
			continue
		}

		path := staleness.ResolveRef(h.root, ref)
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryBuild, "inlined file not readable").
				Warning().
				WithContext("ref", ref).
				WithContext("path", path).
				Build()
		}

		switch tok.Data {
		case "script":
			out.WriteString("<script")
			writeAttrs(&out, tok.Attr, "inline", "src")
			out.WriteByte('>')
			out.Write(contents)
			out.WriteString("</script>")
			if tt == html.StartTagToken {
				skipScriptBody(z)
			} else {
				z.NextIsNotRawText()
			}
		case "link":
			out.WriteString("<style")
			writeAttrs(&out, tok.Attr, "inline", "href", "rel")
			out.WriteByte('>')
			out.Write(contents)
			out.WriteString("</style>")
		}
	}

	if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryBuild, "failed to tokenize document").Warning().Build()
	}
	return out.Bytes(), nil
}

// skipScriptBody consumes the original element body and end tag.
func skipScriptBody(z *html.Tokenizer) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "script" {
				return
			}
		}
	}
}

func writeAttrs(out *bytes.Buffer, attrs []html.Attribute, drop ...string) {
	for _, a := range attrs {
		if slices.Contains(drop, a.Key) {
			continue
		}
		if a.Val == "" {
			fmt.Fprintf(out, " %s", a.Key)
			continue
		}
		fmt.Fprintf(out, ` %s="%s"`, a.Key, html.EscapeString(a.Val))
	}
}
