// Package legacyxml reads inventory XML as sent by legacy agents and turns it
// into a [document.Object].
//
// Decoding happens in three steps, each exported for tests and tooling:
//
//  1. [Parse] builds an ordered element tree. Encodings other than UTF-8
//     (ISO-8859-1 is common with old Windows agents) are transcoded.
//  2. [Prune] removes empty leaves until none are left. Some agents emit
//     deeply nested empty structures, so removing a leaf can empty its parent.
//  3. [ToObject] maps the tree onto a document: repeated sibling tags become a
//     [document.List], attributes are grouped under "@attributes" and the
//     text of an element with attributes is kept as "#text". Text mixed with
//     child elements is dropped.
//
// The root element's name is dropped; its children become the top-level keys.
package legacyxml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"go.jacobcolvin.com/invconv/document"
)

// Keys used for XML constructs that have no element name.
const (
	AttributesKey = "@attributes"
	TextKey       = "#text"
)

// ErrInvalidXML is returned when the input cannot be parsed.
var ErrInvalidXML = errors.New("xml string seems invalid")

// Decode runs [Parse], [Prune] and [ToObject] on data.
func Decode(data []byte) (*document.Object, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}

	Prune(root)

	return ToObject(root), nil
}

// Parse reads data into an element tree and returns its root element.
func Parse(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	err := doc.ReadFromBytes(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w:\n%w", ErrInvalidXML, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w:\nno root element", ErrInvalidXML)
	}

	return root, nil
}

// Prune removes every descendant of root that has no child elements and only
// whitespace text, repeating until a pass removes nothing. It returns the
// number of removed elements. The root itself is never removed.
func Prune(root *etree.Element) int {
	total := 0

	for {
		var empty []*etree.Element

		collectEmptyLeaves(root, &empty)

		if len(empty) == 0 {
			return total
		}

		for i := len(empty) - 1; i >= 0; i-- {
			el := empty[i]
			el.Parent().RemoveChild(el)
		}

		total += len(empty)
	}
}

func collectEmptyLeaves(el *etree.Element, out *[]*etree.Element) {
	for _, child := range el.ChildElements() {
		if len(child.ChildElements()) == 0 && strings.TrimSpace(textOf(child)) == "" {
			*out = append(*out, child)

			continue
		}

		collectEmptyLeaves(child, out)
	}
}

// ToObject converts the children of root into a document object.
func ToObject(root *etree.Element) *document.Object {
	if obj, ok := toValue(root).(*document.Object); ok {
		return obj
	}

	obj := document.NewObject()
	if text := textOf(root); strings.TrimSpace(text) != "" {
		obj.Set(TextKey, document.String(text))
	}

	return obj
}

func toValue(el *etree.Element) document.Value {
	children := el.ChildElements()
	attrs := attributes(el)
	text := textOf(el)

	if len(children) == 0 && attrs == nil {
		return document.String(text)
	}

	obj := document.NewObject()
	if attrs != nil {
		obj.Set(AttributesKey, attrs)
	}

	// Text mixed with child elements is dropped.
	if len(children) == 0 && strings.TrimSpace(text) != "" {
		obj.Set(TextKey, document.String(text))
	}

	for _, child := range children {
		v := toValue(child)

		existing, ok := obj.Get(child.Tag)
		if !ok {
			obj.Set(child.Tag, v)

			continue
		}

		// Element values are never lists, so a list here means repetition.
		if list, isList := existing.(document.List); isList {
			obj.Set(child.Tag, append(list, v))
		} else {
			obj.Set(child.Tag, document.List{existing, v})
		}
	}

	return obj
}

func attributes(el *etree.Element) *document.Object {
	var attrs *document.Object

	for _, attr := range el.Attr {
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}

		if attrs == nil {
			attrs = document.NewObject()
		}

		attrs.Set(attr.Key, document.String(attr.Value))
	}

	return attrs
}

// textOf concatenates the character data directly under el, ignoring
// comments and processing instructions.
func textOf(el *etree.Element) string {
	var sb strings.Builder

	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			sb.WriteString(cd.Data)
		}
	}

	return sb.String()
}
