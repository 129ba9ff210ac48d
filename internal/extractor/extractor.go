package extractor

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/kumo/internal/logging"
)

// Module: extractor
// Parses markup into a queryable tree and projects CSS-selector matches
// into text or attribute mappings.
type Extractor struct {
	logger logging.Logger
}

func New(logger logging.Logger) *Extractor {
	return &Extractor{
		logger: logger.With(logging.Field{Key: "component", Value: "extractor"}),
	}
}

// Element is one extracted selector match. With requested attributes it
// marshals as an object of attribute values plus a "text" key; without, as
// the bare text string.
type Element struct {
	Text  string
	Attrs map[string]string
}

func (e Element) MarshalJSON() ([]byte, error) {
	if e.Attrs == nil {
		return json.Marshal(e.Text)
	}
	m := make(map[string]string, len(e.Attrs)+1)
	maps.Copy(m, e.Attrs)
	// a requested attribute literally named "text" loses to the text content
	m["text"] = e.Text
	return json.Marshal(m)
}

// Extract applies selector to doc and projects every match in document
// order. It returns the extracted elements and the raw match count; the two
// lengths differ only when single elements failed and were skipped.
func (x *Extractor) Extract(doc *Document, selector string, attributes []string) ([]Element, int) {
	sel := doc.Find(selector)
	matched := sel.Length()

	results := make([]Element, 0, matched)
	sel.Each(func(i int, s *goquery.Selection) {
		el, err := extractElement(s, attributes)
		if err != nil {
			x.logger.Warn("error processing element",
				logging.Field{Key: "selector", Value: selector},
				logging.Field{Key: "index", Value: i},
				logging.Field{Key: "error", Value: err.Error()})
			return
		}
		results = append(results, el)
	})

	x.logger.Debug("extracted elements",
		logging.Field{Key: "selector", Value: selector},
		logging.Field{Key: "matched", Value: matched},
		logging.Field{Key: "extracted", Value: len(results)})

	return results, matched
}

// extractElement projects a single matched node. A failure here skips that
// element only; the rest of the batch continues.
func extractElement(s *goquery.Selection, attributes []string) (Element, error) {
	if len(s.Nodes) == 0 {
		return Element{}, fmt.Errorf("selection has no backing node")
	}

	el := Element{Text: collapseText(s.Text())}
	if len(attributes) > 0 {
		el.Attrs = make(map[string]string, len(attributes))
		for _, name := range attributes {
			val, _ := s.Attr(name)
			el.Attrs[name] = val
		}
	}
	return el, nil
}

// collapseText trims and collapses whitespace runs, so an element holding
// "Hello <b>World</b>" extracts as "Hello World".
func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
