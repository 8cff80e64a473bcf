package legacyxml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/invconv/document"
	"go.jacobcolvin.com/invconv/legacyxml"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  map[string]any
	}{
		"single element stays an object": {
			input: `<REQUEST><CONTENT><BIOS><SMANUFACTURER>Dell</SMANUFACTURER></BIOS></CONTENT></REQUEST>`,
			want: map[string]any{
				"CONTENT": map[string]any{"BIOS": map[string]any{"SMANUFACTURER": "Dell"}},
			},
		},
		"repeated siblings become a list": {
			input: `<REQUEST><CONTENT><CPUS><NAME>a</NAME></CPUS><CPUS><NAME>b</NAME></CPUS></CONTENT></REQUEST>`,
			want: map[string]any{
				"CONTENT": map[string]any{"CPUS": []any{
					map[string]any{"NAME": "a"},
					map[string]any{"NAME": "b"},
				}},
			},
		},
		"text whitespace is preserved": {
			input: "<REQUEST><DESCRIPTION>\n  Cisco IOS\n</DESCRIPTION></REQUEST>",
			want:  map[string]any{"DESCRIPTION": "\n  Cisco IOS\n"},
		},
		"attributes are grouped": {
			input: `<REQUEST><PORT id="3">Gi0/3</PORT></REQUEST>`,
			want: map[string]any{
				"PORT": map[string]any{
					legacyxml.AttributesKey: map[string]any{"id": "3"},
					legacyxml.TextKey:       "Gi0/3",
				},
			},
		},
		"text next to children is dropped": {
			input: `<REQUEST><HARDWARE>stray<NAME>h</NAME> tail</HARDWARE></REQUEST>`,
			want:  map[string]any{"HARDWARE": map[string]any{"NAME": "h"}},
		},
		"text next to children and attributes is dropped": {
			input: `<REQUEST><PORT id="3">Gi0/3<NAME>h</NAME></PORT></REQUEST>`,
			want: map[string]any{
				"PORT": map[string]any{
					legacyxml.AttributesKey: map[string]any{"id": "3"},
					"NAME":                  "h",
				},
			},
		},
		"cdata is text": {
			input: `<REQUEST><NAME><![CDATA[a <b> c]]></NAME></REQUEST>`,
			want:  map[string]any{"NAME": "a <b> c"},
		},
		"comments are ignored": {
			input: `<REQUEST><NAME>a<!-- note -->b</NAME></REQUEST>`,
			want:  map[string]any{"NAME": "ab"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := legacyxml.Decode([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, document.Native(got))
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"unclosed":   `<REQUEST><CONTENT></REQUEST>`,
		"empty":      ``,
		"plain text": `not xml at all`,
	}

	for name, input := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := legacyxml.Decode([]byte(input))
			require.ErrorIs(t, err, legacyxml.ErrInvalidXML)
		})
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	root, err := legacyxml.Parse([]byte(`<REQUEST>
  <CONTENT>
    <A><B><C>   </C></B></A>
    <EMPTY attr="1"/>
    <D>x</D>
    <E><F/><G>0</G></E>
  </CONTENT>
</REQUEST>`))
	require.NoError(t, err)

	// C, EMPTY and F, then B, then A.
	assert.Equal(t, 5, legacyxml.Prune(root))
	assert.Equal(t, 0, legacyxml.Prune(root))

	got := legacyxml.ToObject(root)
	assert.Equal(t, map[string]any{
		"CONTENT": map[string]any{
			"D": "x",
			"E": map[string]any{"G": "0"},
		},
	}, document.Native(got))
}

func TestPruneEmptyRoot(t *testing.T) {
	t.Parallel()

	got, err := legacyxml.Decode([]byte(`<REQUEST><CONTENT><X/></CONTENT></REQUEST>`))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestDecodeLatin1(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("testdata", "latin1.xml"))
	require.NoError(t, err)

	got, err := legacyxml.Decode(data)
	require.NoError(t, err)

	name, ok := got.Lookup("CONTENT", "HARDWARE", "NAME")
	require.True(t, ok)
	assert.Equal(t, document.String("poste-comptabilité"), name)
}
