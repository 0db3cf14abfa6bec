package staleness

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestExtractReferences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "script and link in document order",
			text: `<link rel="stylesheet" inline href="build/sass/a.css"><div></div><script inline src="build/js/element/a.js"></script>`,
			want: []string{"build/sass/a.css", "build/js/element/a.js"},
		},
		{
			name: "case insensitive names",
			text: `<LINK INLINE HREF="/x.css"><Script Inline SRC='y.js'></Script>`,
			want: []string{"/x.css", "y.js"},
		},
		{
			name: "repeated markers all collected",
			text: `<script inline src="1.js"></script><script inline src="2.js"></script><script inline src="1.js"></script>`,
			want: []string{"1.js", "2.js", "1.js"},
		},
		{
			name: "self closing",
			text: `<link inline href="a.css" />`,
			want: []string{"a.css"},
		},
		{
			name: "self closing script does not hide later markers",
			text: `<script inline src="a.js"/><dom-module><link inline href="b.css"></dom-module>`,
			want: []string{"a.js", "b.css"},
		},
		{
			name: "unmarked elements ignored",
			text: `<link href="a.css"><script src="b.js"></script><img inline src="c.png">`,
			want: nil,
		},
		{
			name: "wrong attribute per tag ignored",
			text: `<link inline src="a.css"><script inline href="b.js"></script>`,
			want: nil,
		},
		{
			name: "attribute order does not matter",
			text: `<script src="late.js" type="module" inline></script>`,
			want: []string{"late.js"},
		},
		{
			name: "markers inside comments ignored",
			text: `<!-- <script inline src="old.js"></script> -->`,
			want: nil,
		},
		{
			name: "empty input",
			text: ``,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractReferences(tt.text))
		})
	}
}

func TestExtractReferencesIsPure(t *testing.T) {
	text := `<script inline src="a.js"></script><link inline href="b.css">`
	first := ExtractReferences(text)
	second := ExtractReferences(text)
	require.Equal(t, first, second)
	require.Len(t, second, 2)
}

func TestInlineRefRejectsEndTags(t *testing.T) {
	_, ok := InlineRef(html.Token{Type: html.EndTagToken, Data: "script"})
	require.False(t, ok)
}

func TestResolveRef(t *testing.T) {
	require.Equal(t, "root/build/a.js", ResolveRef("root", "/build/a.js"))
	require.Equal(t, "root/build/a.js", ResolveRef("root", "build/a.js"))
	require.Equal(t, "build/a.js", ResolveRef(".", "/build/a.js"))
}

func TestDecodeText(t *testing.T) {
	require.Equal(t, "<p>", DecodeText([]byte("\xef\xbb\xbf<p>")))
	require.Equal(t, "a�b", DecodeText([]byte("a\xffb")))
}
