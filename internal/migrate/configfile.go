package migrate

import (
	"os"
	"path"
	"sort"
	"strings"
)

// SchemaMarker is the filename segment identifying a schema (template) file,
// as in "config.schema.json".
const SchemaMarker = "schema"

// Descriptor is the parsed structure of a config filename. Filenames follow
// <family>[.<variant>].<ext> for custom files and subconfigs, and
// <family>.schema.<ext> for schema files.
type Descriptor struct {
	Dir      string // normalized directory, "" for the workspace root
	Family   string
	Variant  string // "" for the plain custom file and for schemas
	Ext      string
	IsSchema bool
}

// ParseName parses a normalized config path into a Descriptor. ok is false
// when the name has no extension and so cannot be a config file.
func ParseName(normalized string) (Descriptor, bool) {
	dir, name := path.Split(normalized)
	dir = strings.TrimSuffix(dir, "/")

	tokens := strings.Split(name, ".")
	if len(tokens) < 2 || tokens[0] == "" {
		return Descriptor{}, false
	}

	d := Descriptor{
		Dir:    dir,
		Family: tokens[0],
		Ext:    tokens[len(tokens)-1],
	}

	var variant []string
	for _, tok := range tokens[1 : len(tokens)-1] {
		if tok == SchemaMarker {
			d.IsSchema = true
			continue
		}
		variant = append(variant, tok)
	}
	d.Variant = strings.Join(variant, ".")

	return d, true
}

// Name reassembles the filename described by the descriptor.
func (d Descriptor) Name() string {
	tokens := []string{d.Family}
	if d.IsSchema {
		tokens = append(tokens, SchemaMarker)
	}
	if d.Variant != "" {
		tokens = append(tokens, d.Variant)
	}
	return strings.Join(append(tokens, d.Ext), ".")
}

// Path returns the normalized path of the described file.
func (d Descriptor) Path() string {
	if d.Dir == "" {
		return d.Name()
	}
	return d.Dir + "/" + d.Name()
}

// CustomSibling returns the descriptor of the plain custom file in the same
// family, e.g. "config.schema.json" -> "config.json".
func (d Descriptor) CustomSibling() Descriptor {
	return Descriptor{Dir: d.Dir, Family: d.Family, Ext: d.Ext}
}

// SameFamily reports whether two descriptors belong to the same config
// family: same directory, same family name, same extension.
func (d Descriptor) SameFamily(o Descriptor) bool {
	return d.Dir == o.Dir && d.Family == o.Family && d.Ext == o.Ext
}

// ExpandFamily returns every non-schema member of the reference's family
// found in the listing, excluding ignored basenames. This is the pure
// expansion rule: a change expressed once against a family applies to the
// custom file and all of its subconfigs, never to the schema template.
func ExpandFamily(ref Descriptor, listing []Descriptor, ignore []string) []Descriptor {
	var out []Descriptor
	for _, d := range listing {
		if d.IsSchema || !d.SameFamily(ref) {
			continue
		}
		if ignored(d.Name(), ignore) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

func ignored(basename string, ignore []string) bool {
	for _, ig := range ignore {
		if ig == basename {
			return true
		}
	}
	return false
}

// listDescriptors parses every regular file in a workspace directory into a
// descriptor. dir is normalized ("" for the root).
func (w *Workspace) listDescriptors(dir string) ([]Descriptor, error) {
	abs := w.Root
	if dir != "" {
		abs = w.Abs(dir)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	var out []Descriptor
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rel := e.Name()
		if dir != "" {
			rel = dir + "/" + e.Name()
		}
		if d, ok := ParseName(rel); ok {
			out = append(out, d)
		}
	}
	return out, nil
}
