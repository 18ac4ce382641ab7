package migrate

import (
	"reflect"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Descriptor
		ok   bool
	}{
		{"config.json", Descriptor{Family: "config", Ext: "json"}, true},
		{"config.schema.json", Descriptor{Family: "config", Ext: "json", IsSchema: true}, true},
		{"config.beta.json", Descriptor{Family: "config", Variant: "beta", Ext: "json"}, true},
		{"config.beta.2.json", Descriptor{Family: "config", Variant: "beta.2", Ext: "json"}, true},
		{"colors/config.json", Descriptor{Dir: "colors", Family: "config", Ext: "json"}, true},
		{"noext", Descriptor{}, false},
		{".hidden", Descriptor{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseName(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseName(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	paths := []string{
		"config.json",
		"config.schema.json",
		"config.beta.json",
		"colors/config.schema.json",
	}
	for _, p := range paths {
		d, ok := ParseName(p)
		if !ok {
			t.Fatalf("ParseName(%q) failed", p)
		}
		if got := d.Path(); got != p {
			t.Errorf("Path() = %q, want %q", got, p)
		}
	}
}

func TestCustomSibling(t *testing.T) {
	d, _ := ParseName("colors/config.schema.json")
	if got := d.CustomSibling().Path(); got != "colors/config.json" {
		t.Errorf("CustomSibling() = %q, want colors/config.json", got)
	}
}

func TestExpandFamily(t *testing.T) {
	listing := parseAll(t,
		"a.schema.json",
		"a.json",
		"a.beta.json",
		"a.staging.json",
		"b.json",
		"b.schema.json",
	)

	tests := []struct {
		name   string
		ref    string
		ignore []string
		want   []string
	}{
		{
			name: "schema ref expands to custom side only",
			ref:  "a.schema.json",
			want: []string{"a.beta.json", "a.json", "a.staging.json"},
		},
		{
			name: "custom ref expands the same way",
			ref:  "a.json",
			want: []string{"a.beta.json", "a.json", "a.staging.json"},
		},
		{
			name: "other families excluded",
			ref:  "b.json",
			want: []string{"b.json"},
		},
		{
			name:   "ignore list respected",
			ref:    "a.json",
			ignore: []string{"a.staging.json"},
			want:   []string{"a.beta.json", "a.json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, _ := ParseName(tt.ref)
			var got []string
			for _, d := range ExpandFamily(ref, listing, tt.ignore) {
				got = append(got, d.Path())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandFamily(%s) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSameFamilyRequiresSameDir(t *testing.T) {
	a, _ := ParseName("colors/config.json")
	b, _ := ParseName("coordinates/config.json")
	if a.SameFamily(b) {
		t.Error("files in different directories must not share a family")
	}
}

func parseAll(t *testing.T, paths ...string) []Descriptor {
	t.Helper()
	out := make([]Descriptor, 0, len(paths))
	for _, p := range paths {
		d, ok := ParseName(p)
		if !ok {
			t.Fatalf("ParseName(%q) failed", p)
		}
		out = append(out, d)
	}
	return out
}
