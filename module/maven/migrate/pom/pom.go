// Package pom rewrites maven project descriptors in place.
package pom

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/afero"
)

// URLTag is the element whose text holds repository and site locations.
const URLTag = "url"

// Descriptor is a POM file on a staging filesystem. The document is parsed
// the first time its structure is needed.
type Descriptor struct {
	fs   afero.Fs
	path string
	doc  *etree.Document
}

// Open binds a descriptor to path without reading it.
func Open(fs afero.Fs, path string) *Descriptor {
	return &Descriptor{fs: fs, path: path}
}

func (d *Descriptor) Path() string {
	return d.path
}

func (d *Descriptor) document() (*etree.Document, error) {
	if d.doc != nil {
		return d.doc, nil
	}
	data, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.path, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", d.path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse %s: no root element", d.path)
	}
	d.doc = doc
	return doc, nil
}

// Namespace returns the namespace URI of the root element, empty when the
// document has none.
func (d *Descriptor) Namespace() (string, error) {
	doc, err := d.document()
	if err != nil {
		return "", err
	}
	return doc.Root().NamespaceURI(), nil
}

// Replace substitutes the text of every descendant named tag that lives in
// the root namespace, using mapping as a lookup table. Values missing from
// the mapping are left as they are. The file is written back to its
// original path and the number of substituted elements is returned.
func (d *Descriptor) Replace(tag string, mapping map[string]string) (int, error) {
	doc, err := d.document()
	if err != nil {
		return 0, err
	}
	root := doc.Root()
	ns := root.NamespaceURI()

	replaced := 0
	for _, el := range root.FindElements(".//" + tag) {
		if el.NamespaceURI() != ns {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if to, ok := mapping[text]; ok {
			el.SetText(to)
			replaced++
		}
	}

	if err := d.write(doc); err != nil {
		return replaced, err
	}
	return replaced, nil
}

func (d *Descriptor) write(doc *etree.Document) error {
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", d.path, err)
	}
	if err := afero.WriteFile(d.fs, d.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.path, err)
	}
	return nil
}
