package bpmn

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/vine-io/pkg/xname"

	"github.com/vine-io/bpmnkit/graph"
	"github.com/vine-io/bpmnkit/schema"
)

// structural attributes are owned by the translator and never preserved.
var structural = []string{
	schema.AttrID,
	schema.AttrName,
	schema.AttrSourceRef,
	schema.AttrTargetRef,
	schema.AttrProcessRef,
	schema.AttrDataRef,
	schema.AttrExecutable,
}

func getAttr(attrs []etree.Attr, name string) (string, bool) {
	for _, attr := range attrs {
		if attr.FullKey() == name {
			return attr.Value, true
		}
	}
	return "", false
}

func randName() string {
	return xname.Gen(xname.C(7), xname.Lowercase(), xname.Digit())
}

// readAttributes copies the attributes of el in document order, leaving out
// namespace declarations and the structural ones. A prefixed attribute brings
// the declaration of its prefix along so it stays valid wherever it is
// written.
func readAttributes(el *etree.Element) graph.Attributes {
	var attrs graph.Attributes
	var declared []string
	excluded := map[string]struct{}{}
	for _, name := range structural {
		excluded[name] = struct{}{}
	}

	for _, attr := range el.Attr {
		if schema.IsDeclaration(attr) {
			continue
		}
		key := attr.FullKey()
		if _, skip := excluded[key]; skip {
			continue
		}
		attrs = append(attrs, graph.Attribute{Name: key, Value: attr.Value})
		if attr.Space != "" && attr.Space != "xml" {
			declared = append(declared, attr.Space)
		}
	}

	for _, prefix := range declared {
		name := "xmlns:" + prefix
		if _, ok := attrs.Get(name); ok {
			continue
		}
		if uri := schema.LookupNamespace(el, prefix); uri != "" {
			attrs = append(attrs, graph.Attribute{Name: name, Value: uri})
		}
	}
	return attrs
}

// writeAttributes appends preserved attributes, dropping structural ones and
// any name already present on el.
func writeAttributes(el *etree.Element, attrs graph.Attributes) {
	for _, attr := range attrs.Without(structural...) {
		if el.SelectAttr(attr.Name) != nil {
			continue
		}
		el.CreateAttr(attr.Name, attr.Value)
	}
}

// readDocumentation collects the direct documentation children of el.
func readDocumentation(el *etree.Element) []string {
	var docs []string
	for _, child := range schema.ModelChildren(el, schema.Documentation) {
		docs = append(docs, child.Text())
	}
	return docs
}

// writeDocumentation emits the edited text first, then every non-empty
// preserved entry.
func writeDocumentation(el *etree.Element, edited string, preserved []string) {
	if edited != "" {
		el.CreateElement(schema.Model(schema.Documentation)).SetText(edited)
	}
	for _, text := range preserved {
		if text == "" {
			continue
		}
		el.CreateElement(schema.Model(schema.Documentation)).SetText(text)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
