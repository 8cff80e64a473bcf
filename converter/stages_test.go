package converter

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/invconv/document"
	"go.jacobcolvin.com/invconv/schema"
)

func TestRuleTables(t *testing.T) {
	t.Parallel()

	rules := slices.Concat(boolFields, intFields, subListFields)
	for _, rule := range rules {
		section, field := splitRule(rule)
		assert.NotEmpty(t, section, rule)
		assert.NotEmpty(t, field, rule)
		assert.Equal(t, strings.ToLower(rule), rule)
	}

	names := map[string]bool{}

	for _, p := range registry {
		for _, s := range p.Stages {
			assert.False(t, names[s.Name], "duplicate stage %s", s.Name)
			assert.NotNil(t, s.apply, s.Name)

			names[s.Name] = true
		}
	}

	// Legacy names are renamed by later stages.
	props := schema.Canonical().Properties["content"].Properties
	for _, section := range listSections {
		if section == "user" || section == "firewall" {
			continue
		}

		def, ok := props[section]
		if assert.True(t, ok, section) {
			assert.Equal(t, "array", def.Type, section)
		}
	}
}

func TestNormalizeListsIdempotent(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalizing twice equals normalizing once", prop.ForAll(
		func(section string, n int, asList bool) bool {
			entries := make(document.List, n)
			for i := range entries {
				entry := document.NewObject()
				entry.Set("name", document.Int(i))
				entries[i] = entry
			}

			var value document.Value = entries
			if !asList && n == 1 {
				value = entries[0]
			}

			content := document.NewObject()
			content.Set(section, value)

			doc := document.NewObject()
			doc.Set("content", content)

			r := &run{doc: doc, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

			if normalizeLists(r) != nil {
				return false
			}

			once := doc.Clone()

			if normalizeLists(r) != nil {
				return false
			}

			got, ok := content.List(section)

			return ok && len(got) == n && assert.ObjectsAreEqual(once, doc)
		},
		gen.OneConstOf(toAny(listSections)...),
		gen.IntRange(1, 5),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestCastTypesObjectAndList(t *testing.T) {
	t.Parallel()

	doc, ok := document.From(map[string]any{
		"content": map[string]any{
			"hardware": map[string]any{"etime": "12"},
			"cpus": []any{
				map[string]any{"speed": "2600", "core": "x"},
				map[string]any{"speed": "1.0"},
			},
			"networks": map[string]any{"virtualdev": "0", "management": "yes"},
		},
	}).(*document.Object)
	require.True(t, ok)

	require.NoError(t, castTypes(&run{doc: doc}))

	v, _ := doc.Lookup("content", "hardware", "etime")
	assert.Equal(t, document.Int(12), v)

	cpus, _ := doc.Lookup("content", "cpus")
	list, ok := cpus.(document.List)
	require.True(t, ok)
	require.Len(t, list, 2)

	first, second := list[0].(*document.Object), list[1].(*document.Object)

	speed, _ := first.Get("speed")
	assert.Equal(t, document.Int(2600), speed)
	assert.False(t, first.Has("core"))

	speed, _ = second.Get("speed")
	assert.Equal(t, document.Int(1), speed)

	virtualdev, _ := doc.Lookup("content", "networks", "virtualdev")
	assert.Equal(t, document.Bool(false), virtualdev)

	management, _ := doc.Lookup("content", "networks", "management")
	assert.Equal(t, document.Bool(true), management)
}

func TestDiscoveryHostnamePrecedence(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		device map[string]any
		want   string
	}{
		"snmp wins": {
			device: map[string]any{"snmphostname": "snmp", "netbiosname": "nb", "dnshostname": "dns"},
			want:   "snmp",
		},
		"netbios over dns": {
			device: map[string]any{"netbiosname": "nb", "dnshostname": "dns"},
			want:   "nb",
		},
		"dns alone": {
			device: map[string]any{"dnshostname": "dns"},
			want:   "dns",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			device, ok := document.From(tc.device).(*document.Object)
			require.True(t, ok)

			content := document.NewObject()
			require.NoError(t, discoveredDevice(content, device))

			info, ok := device.Object("info")
			require.True(t, ok)

			got, _ := info.Text("name")
			assert.Equal(t, tc.want, got)
			assert.Equal(t, []string{"info"}, device.Keys())
		})
	}
}

func TestDiscoveryVendorFallback(t *testing.T) {
	t.Parallel()

	device, ok := document.From(map[string]any{
		"manufacturer":  "Cisco",
		"netportvendor": "Intel",
	}).(*document.Object)
	require.True(t, ok)

	require.NoError(t, discoveredDevice(document.NewObject(), device))

	got, _ := device.Lookup("info", "manufacturer")
	assert.Equal(t, document.String("Cisco"), got)
}

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		v    document.Value
		want bool
	}{
		"nil":          {v: nil, want: true},
		"blank":        {v: document.String(""), want: true},
		"zero":         {v: document.String("0"), want: true},
		"text":         {v: document.String("x"), want: false},
		"empty list":   {v: document.List{}, want: true},
		"list":         {v: document.List{document.String("x")}, want: false},
		"empty object": {v: document.NewObject(), want: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, isEmpty(tc.v))
		})
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
