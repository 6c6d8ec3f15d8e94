// Package gpx is a namespace-aware document model for GPX 1.0 files.
//
// The model is deliberately not a schema mapping: the underlying tree keeps
// every element, attribute and comment it does not explicitly mutate, so
// content written by other tools (waypoints, routes, extensions) survives a
// rewrite intact.
package gpx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Namespace is the GPX 1.0 namespace URI. Elements resolving to any other
// namespace are opaque passthrough content.
const Namespace = "http://www.topografix.com/GPX/1/0"

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// Document wraps one parsed GPX tree. It is created by Load, mutated track
// by track and consumed by WriteFileAtomic; it is not safe for concurrent
// use and does not outlive one run.
type Document struct {
	doc  *etree.Document
	root *etree.Element
}

// Load parses an XML document from r. Non-UTF-8 encodings declared in the
// XML declaration are decoded transparently; the serialized form is always
// UTF-8.
func Load(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return &Document{doc: doc, root: root}, nil
}

// RootTag returns the local name of the root element.
func (d *Document) RootTag() string { return d.root.Tag }

// RootNamespace returns the resolved namespace URI of the root element, or
// "" when the root is not in any namespace.
func (d *Document) RootNamespace() string { return d.root.NamespaceURI() }

// Version returns the root's version attribute, or "" if absent.
func (d *Document) Version() string { return d.root.SelectAttrValue("version", "") }

// Creator returns the root's creator attribute, or "" if absent.
func (d *Document) Creator() string { return d.root.SelectAttrValue("creator", "") }

// StampCreator records tool in the document's creator attribute: it becomes
// the creator of a document that had none and is appended as a processing
// note otherwise.
func (d *Document) StampCreator(tool string) {
	creator := d.Creator()
	if creator == "" {
		creator = tool
	} else {
		creator += " (processed by " + tool + ")"
	}
	d.root.CreateAttr("creator", creator)
}

// Tracks returns handles for all <trk> elements in document order.
func (d *Document) Tracks() []*Track {
	var tracks []*Track
	for _, el := range childrenNS(d.root, "trk") {
		tracks = append(tracks, &Track{el: el})
	}
	return tracks
}

// WriteTo serializes the document as UTF-8 XML with an XML declaration.
// Everything that was not explicitly mutated is emitted as parsed.
func (d *Document) WriteTo(w io.Writer) error {
	if pi := d.xmlDecl(); pi != nil {
		// Whatever encoding the input declared, the bytes we emit are UTF-8.
		pi.Inst = `version="1.0" encoding="UTF-8"`
	} else if _, err := io.WriteString(w, xmlDeclaration+"\n"); err != nil {
		return err
	}
	_, err := d.doc.WriteTo(w)
	return err
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) xmlDecl() *etree.ProcInst {
	for _, tok := range d.doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			return pi
		}
	}
	return nil
}

// Track is a handle on one <trk> element of a Document.
type Track struct {
	el *etree.Element
}

// Point is one <trkpt>, flattened out of its segment. Time is nil when the
// point has no parseable <time> child.
type Point struct {
	Lat  float64
	Lon  float64
	Time *time.Time
}

// Name returns the track's <name> text and whether the element exists. An
// empty <name/> yields "" with present true.
func (t *Track) Name() (string, bool) {
	if el := firstChildNS(t.el, "name"); el != nil {
		return el.Text(), true
	}
	return "", false
}

// Points flattens all <trkpt> elements across the track's segments in
// document order. Every point must carry valid lat and lon attributes; the
// first violation fails the whole call.
func (t *Track) Points() ([]Point, error) {
	var points []Point
	for _, seg := range childrenNS(t.el, "trkseg") {
		for _, pt := range childrenNS(seg, "trkpt") {
			latAttr := pt.SelectAttr("lat")
			lonAttr := pt.SelectAttr("lon")
			if latAttr == nil || lonAttr == nil {
				return nil, fmt.Errorf("<trkpt> %d is missing `lon' and/or `lat' attributes", len(points))
			}
			lat, err := strconv.ParseFloat(latAttr.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("<trkpt> %d has invalid value for `lat' attribute: %w", len(points), err)
			}
			lon, err := strconv.ParseFloat(lonAttr.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("<trkpt> %d has invalid value for `lon' attribute: %w", len(points), err)
			}
			p := Point{Lat: lat, Lon: lon}
			if el := firstChildNS(pt, "time"); el != nil {
				if ts, ok := parseTime(el.Text()); ok {
					p.Time = &ts
				}
			}
			points = append(points, p)
		}
	}
	return points, nil
}

// SetName sets the track's <name> text, creating the element if absent.
func (t *Track) SetName(name string) {
	t.getOrCreate("name").SetText(name)
}

// SetDescription sets the track's <desc> text, creating the element if
// absent. Any previous description is replaced wholesale, so repeated runs
// do not accumulate text.
func (t *Track) SetDescription(desc string) {
	t.getOrCreate("desc").SetText(desc)
}

func (t *Track) getOrCreate(local string) *etree.Element {
	if el := firstChildNS(t.el, local); el != nil {
		return el
	}
	// New elements reuse the parent's prefix so serialization never has to
	// invent namespace declarations.
	tag := local
	if t.el.Space != "" {
		tag = t.el.Space + ":" + local
	}
	return t.el.CreateElement(tag)
}

func childrenNS(e *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == local && c.NamespaceURI() == Namespace {
			out = append(out, c)
		}
	}
	return out
}

func firstChildNS(e *etree.Element, local string) *etree.Element {
	for _, c := range e.ChildElements() {
		if c.Tag == local && c.NamespaceURI() == Namespace {
			return c
		}
	}
	return nil
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, true
	}
	// Some writers drop the zone designator; GPX times are UTC by spec.
	if ts, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
