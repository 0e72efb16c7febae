// Package query wraps a parsed XML document with a small, parameterized path
// language. Paths are built from tag names and attribute equality predicates;
// predicate values are compared literally and never parsed, so identifiers
// taken from a document can be used in a query without escaping.
package query

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrMalformedXML is returned when input is not a well-formed XML document.
var ErrMalformedXML = errors.New("malformed xml")

// Namespaces maps the prefixes understood in attribute names to their URIs.
// A prefixed attribute name matches either the literal prefix or any prefix
// bound to the same URI in the document.
var Namespaces = map[string]string{
	"oai":   "http://www.openarchives.org/OAI/2.0/",
	"mets":  "http://www.loc.gov/METS/",
	"mods":  "http://www.loc.gov/mods/v3",
	"xlink": "http://www.w3.org/1999/xlink",
}

// Document is a parsed, read-only XML document.
type Document struct {
	doc *etree.Document
}

// Parse reads a whole XML document from r.
func Parse(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(b)
}

// ParseBytes parses an in-memory XML document. Documents declaring a
// non-UTF-8 encoding are decoded with the x/net charset tables.
func ParseBytes(b []byte) (*Document, error) {
	if err := wellFormed(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedXML)
	}
	return &Document{doc: doc}, nil
}

// wellFormed runs a strict token pass; etree reads raw tokens and does not
// catch every mismatched or unclosed element.
func wellFormed(b []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(b))
	dec.CharsetReader = charset.NewReaderLabel
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// MustParse is like ParseBytes but panics on error. Intended for fixtures.
func MustParse(s string) *Document {
	d, err := ParseBytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return d
}

type axis int

const (
	childAxis axis = iota
	descendantAxis
)

type predicate struct {
	name  string
	value string
}

type step struct {
	axis  axis
	tag   string
	preds []predicate
}

// Path selects elements by walking child and descendant steps from the
// document node. Paths are immutable; every builder method returns a copy.
type Path struct {
	steps []step
}

// Root returns a path of child steps starting at the document node.
func Root(tags ...string) Path {
	var p Path
	for _, t := range tags {
		p = p.Child(t)
	}
	return p
}

// Child appends a step selecting child elements with the given local name.
func (p Path) Child(tag string) Path {
	return p.with(step{axis: childAxis, tag: tag})
}

// Descendant appends a step selecting descendant elements with the given
// local name, at any depth, in document order.
func (p Path) Descendant(tag string) Path {
	return p.with(step{axis: descendantAxis, tag: tag})
}

// Where restricts the last step to elements whose attribute equals value.
// An empty value matches nothing, since empty attributes count as absent.
func (p Path) Where(attr, value string) Path {
	if len(p.steps) == 0 {
		return p
	}
	steps := make([]step, len(p.steps))
	copy(steps, p.steps)
	last := steps[len(steps)-1]
	preds := make([]predicate, len(last.preds), len(last.preds)+1)
	copy(preds, last.preds)
	last.preds = append(preds, predicate{name: attr, value: value})
	steps[len(steps)-1] = last
	return Path{steps: steps}
}

func (p Path) with(s step) Path {
	steps := make([]step, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	return Path{steps: append(steps, s)}
}

// String renders the path in XPath-like notation for logs.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.steps {
		switch {
		case s.axis == descendantAxis:
			b.WriteString("//")
		case i > 0:
			b.WriteString("/")
		}
		b.WriteString(s.tag)
		for _, pr := range s.preds {
			fmt.Fprintf(&b, "[@%s=%s]", pr.name, strconv.Quote(pr.value))
		}
	}
	return b.String()
}

func (s step) matches(e *etree.Element) bool {
	if s.tag != "*" && e.Tag != s.tag {
		return false
	}
	for _, pr := range s.preds {
		if pr.value == "" || Attr(e, pr.name) != pr.value {
			return false
		}
	}
	return true
}

func (s step) collect(e *etree.Element, emit func(*etree.Element)) {
	for _, c := range e.ChildElements() {
		if s.matches(c) {
			emit(c)
		}
		if s.axis == descendantAxis {
			s.collect(c, emit)
		}
	}
}

// Nodes returns every element selected by p in document order.
func (d *Document) Nodes(p Path) []*etree.Element {
	nodes := []*etree.Element{&d.doc.Element}
	for _, s := range p.steps {
		seen := make(map[*etree.Element]bool)
		var next []*etree.Element
		for _, e := range nodes {
			s.collect(e, func(c *etree.Element) {
				if !seen[c] {
					seen[c] = true
					next = append(next, c)
				}
			})
		}
		if len(next) == 0 {
			return nil
		}
		nodes = next
	}
	return nodes
}

// Node returns the first element selected by p, or nil.
func (d *Document) Node(p Path) *etree.Element {
	nodes := d.Nodes(p)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Attribute returns the named attribute of the first selected element.
func (d *Document) Attribute(p Path, name string) string {
	if e := d.Node(p); e != nil {
		return Attr(e, name)
	}
	return ""
}

// Attributes returns the named attribute of every selected element, skipping
// elements where it is absent or empty.
func (d *Document) Attributes(p Path, name string) []string {
	var values []string
	for _, e := range d.Nodes(p) {
		if v := Attr(e, name); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Text returns the trimmed text content of the first selected element.
func (d *Document) Text(p Path) string {
	if e := d.Node(p); e != nil {
		return Text(e)
	}
	return ""
}

// Texts returns the trimmed, non-empty text content of every selected element.
func (d *Document) Texts(p Path) []string {
	var values []string
	for _, e := range d.Nodes(p) {
		if v := Text(e); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Attr returns the value of the named attribute of e, or "" when it is
// missing. Names may be prefixed, e.g. "xlink:to".
func Attr(e *etree.Element, name string) string {
	space, key := "", name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		space, key = name[:i], name[i+1:]
	}
	for i := range e.Attr {
		a := &e.Attr[i]
		if a.Key != key || a.Space == "xmlns" {
			continue
		}
		if space == "" || a.Space == space {
			return a.Value
		}
		if uri, ok := Namespaces[space]; ok && a.NamespaceURI() == uri {
			return a.Value
		}
	}
	return ""
}

// Text returns the concatenated, trimmed character data below e.
func Text(e *etree.Element) string {
	var b strings.Builder
	appendText(&b, e)
	return strings.TrimSpace(b.String())
}

func appendText(b *strings.Builder, e *etree.Element) {
	for _, t := range e.Child {
		switch t := t.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			appendText(b, t)
		}
	}
}
