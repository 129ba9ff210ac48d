package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed, queryable HTML tree.
type Document struct {
	doc *goquery.Document
}

// Find runs a CSS selector query against the tree. Malformed selectors
// match nothing rather than failing.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Serialize renders the tree back to markup. Because parsing normalizes the
// tree, serializing a reparse of the output yields the same string again.
func (d *Document) Serialize() (string, error) {
	var sb strings.Builder
	for _, node := range d.doc.Nodes {
		if err := html.Render(&sb, node); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return sb.String(), nil
}

// Parse builds a Document from raw markup. Parsing is lenient: unclosed
// tags, bad nesting and broken entities are recovered, never rejected.
func (x *Extractor) Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}
