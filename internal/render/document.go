// Package render turns collected parameters into the generated script, README
// and CHANGELOG. Every artifact is assembled from named sections so each part
// can be produced and tested on its own.
package render

import "strings"

// Section is one pre-rendered named block of an artifact.
type Section struct {
	Name string
	Body string
}

// Document is an ordered list of sections.
type Document struct {
	sections []Section
}

// Add appends a section. Bodies are joined verbatim, so each body owns its trailing newlines.
func (d *Document) Add(name, body string) *Document {
	d.sections = append(d.sections, Section{Name: name, Body: body})
	return d
}

// Section returns the body of the first section called name.
func (d *Document) Section(name string) (string, bool) {
	for _, s := range d.sections {
		if s.Name == name {
			return s.Body, true
		}
	}
	return "", false
}

// Names lists section names in order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		names = append(names, s.Name)
	}
	return names
}

// String concatenates every section body in order.
func (d *Document) String() string {
	var b strings.Builder
	for _, s := range d.sections {
		b.WriteString(s.Body)
	}
	return b.String()
}
