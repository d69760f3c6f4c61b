package launch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
)

// Element is a generic node of a parsed XML launch description.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Element `xml:",any"`
}

// Parse decodes a launch description into an element tree. Documents may
// declare any IANA registered encoding.
func Parse(data []byte) (*Element, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charsetReader

	var root Element
	if err := d.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Name returns the local tag name.
func (e *Element) Name() string {
	return e.XMLName.Local
}

// Attr looks up an attribute by local name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildrenNamed returns the direct children with the given tag, in document order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// IsLaunch reports whether the element is a launch description root.
func (e *Element) IsLaunch() bool {
	return e.Name() == tagLaunch
}

const (
	tagLaunch   = "launch"
	tagGroup    = "group"
	tagNode     = "node"
	tagRemap    = "remap"
	tagSetRemap = "set_remap"
	tagInclude  = "include"
	tagArg      = "arg"
	tagLet      = "let"
)
