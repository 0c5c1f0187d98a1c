package form

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Zachkp/portfolio/internal/page"
)

// ErrElementMissing is returned when the markup lacks an element the
// contact form depends on.
var ErrElementMissing = errors.New("form: required element missing")

// ContactFormID is the id of the contact form element.
const ContactFormID = "contactForm"

// ContactFields are the field names the contact pipeline reads.
var ContactFields = []string{"name", "email", "message"}

const defaultSubmitLabel = "Send Message"

// FieldSpec describes an input discovered in the markup.
type FieldSpec struct {
	Name     string
	ID       string
	Type     string
	Kind     Kind
	Required bool
}

// Layout is the typed description of the contact form markup, parsed once
// at startup.
type Layout struct {
	FormID      string
	Action      string
	Fields      []FieldSpec
	SubmitLabel string
}

// ParseLayout locates the form with the given id and its controls. The
// named fields and a submit button must all be present.
func ParseLayout(r io.Reader, formID string, required ...string) (*Layout, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	formNode := find(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Form && attr(n, "id") == formID
	})
	if formNode == nil {
		return nil, fmt.Errorf("%w: form#%s", ErrElementMissing, formID)
	}

	layout := &Layout{
		FormID: formID,
		Action: attr(formNode, "hx-post"),
	}
	if layout.Action == "" {
		layout.Action = attr(formNode, "action")
	}

	var submit *html.Node
	walk(formNode, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Input, atom.Textarea:
			spec, ok := fieldSpec(n)
			if ok {
				layout.Fields = append(layout.Fields, spec)
			}
		case atom.Button:
			if submit == nil && strings.EqualFold(attr(n, "type"), "submit") {
				submit = n
			}
		}
	})

	for _, name := range required {
		if !layout.has(name) {
			return nil, fmt.Errorf("%w: field %q", ErrElementMissing, name)
		}
	}
	if submit == nil {
		return nil, fmt.Errorf("%w: submit button", ErrElementMissing)
	}

	layout.SubmitLabel = attr(submit, "data-label")
	if layout.SubmitLabel == "" {
		layout.SubmitLabel = strings.TrimSpace(text(submit))
	}
	if layout.SubmitLabel == "" || strings.Contains(layout.SubmitLabel, "{{") {
		layout.SubmitLabel = defaultSubmitLabel
	}
	return layout, nil
}

func (l *Layout) has(name string) bool {
	for _, f := range l.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// NewForm builds a fresh form view-model from the layout. Field error
// styles are injected into head the first time a field turns invalid.
func (l *Layout) NewForm(head *page.Head) *Form {
	f := &Form{
		ID:     l.FormID,
		Action: l.Action,
		head:   head,
		submit: SubmitControl{Label: l.SubmitLabel, OriginalLabel: l.SubmitLabel},
	}
	for _, spec := range l.Fields {
		f.fields = append(f.fields, &Field{
			Name:     spec.Name,
			ID:       spec.ID,
			Type:     spec.Type,
			Kind:     spec.Kind,
			Required: spec.Required,
		})
	}
	return f
}

func fieldSpec(n *html.Node) (FieldSpec, bool) {
	name := attr(n, "name")
	if name == "" {
		name = attr(n, "id")
	}
	typ := strings.ToLower(attr(n, "type"))
	if n.DataAtom == atom.Textarea {
		typ = "textarea"
	}
	if name == "" || typ == "hidden" || typ == "submit" {
		return FieldSpec{}, false
	}
	if typ == "" {
		typ = "text"
	}

	kind := KindText
	switch {
	case typ == "email":
		kind = KindEmail
	case name == "message":
		kind = KindMessage
	}
	return FieldSpec{
		Name:     name,
		ID:       attr(n, "id"),
		Type:     typ,
		Kind:     kind,
		Required: hasAttr(n, "required"),
	}, true
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
