package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/raysh454/kumo/internal/extractor"
	"github.com/raysh454/kumo/internal/fetcher"
)

// Request is the scrape order: what to fetch and what to pull out of it.
type Request struct {
	URL        string            `json:"url" example:"https://example.com/blog"`
	Selector   string            `json:"selector,omitempty" example:"article.post"`
	Attributes []string          `json:"attributes,omitempty" example:"class,href"`
	Headers    map[string]string `json:"headers,omitempty"`
	// TimeoutSeconds bounds one fetch attempt; non-positive values take the
	// 30s default.
	TimeoutSeconds  int   `json:"timeout,omitempty" example:"30"`
	FollowRedirects *bool `json:"followRedirects,omitempty" example:"true"`
}

// Timeout converts the request's timeout field to a duration. Zero means
// "use the fetcher default".
func (r *Request) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// ShouldFollowRedirects resolves the tri-state flag; absent means follow.
func (r *Request) ShouldFollowRedirects() bool {
	return r.FollowRedirects == nil || *r.FollowRedirects
}

// Response is the uniform envelope every scrape produces, whatever happened.
type Response struct {
	Success bool `json:"success" example:"true"`
	// Data always marshals as an object: {}, {"html": ...} or {"results": [...]}.
	Data       Data   `json:"data"`
	Error      string `json:"error,omitempty" example:"HTTP Error: 404"`
	StatusCode int    `json:"statusCode,omitempty" example:"200"`
	Message    string `json:"message,omitempty" example:"Server returned status code 404"`
}

// Data is the variant payload of a Response: nothing, a serialized full
// document, or the extracted selector matches.
type Data struct {
	kind    dataKind
	html    string
	results []extractor.Element
}

type dataKind int

const (
	dataEmpty dataKind = iota
	dataFullDocument
	dataElementMatches
)

// FullDocument wraps a serialized document, the no-selector outcome.
func FullDocument(html string) Data {
	return Data{kind: dataFullDocument, html: html}
}

// ElementMatches wraps extracted elements, the with-selector outcome.
func ElementMatches(results []extractor.Element) Data {
	return Data{kind: dataElementMatches, results: results}
}

// HTML returns the serialized document when this is a full-document payload.
func (d Data) HTML() (string, bool) {
	return d.html, d.kind == dataFullDocument
}

// Results returns the extracted elements when this is a matches payload.
func (d Data) Results() ([]extractor.Element, bool) {
	return d.results, d.kind == dataElementMatches
}

func (d Data) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case dataFullDocument:
		return json.Marshal(struct {
			HTML string `json:"html"`
		}{d.html})
	case dataElementMatches:
		results := d.results
		if results == nil {
			results = []extractor.Element{}
		}
		return json.Marshal(struct {
			Results []extractor.Element `json:"results"`
		}{results})
	default:
		return []byte("{}"), nil
	}
}

// ─── Envelope constructors ──────────────────────────────────────────────

func httpErrorResponse(code int) Response {
	return Response{
		Success:    false,
		Error:      fmt.Sprintf("HTTP Error: %d", code),
		StatusCode: code,
		Message:    fmt.Sprintf("Server returned status code %d", code),
	}
}

func emptyBodyResponse(code int) Response {
	return Response{
		Success:    false,
		Error:      "Empty response from server",
		StatusCode: code,
		Message:    "Received empty HTML content",
	}
}

func parseFailureResponse(code int, err error) Response {
	return Response{
		Success:    false,
		Error:      "HTML parsing failed",
		StatusCode: code,
		Message:    fmt.Sprintf("Failed to parse HTML: %v", err),
	}
}

func fullDocumentResponse(code int, html string) Response {
	return Response{
		Success:    true,
		Data:       FullDocument(html),
		StatusCode: code,
	}
}

func matchesResponse(code int, results []extractor.Element, matched int) Response {
	resp := Response{
		Success:    true,
		Data:       ElementMatches(results),
		StatusCode: code,
	}
	switch {
	case matched == 0:
		resp.Message = "No elements found matching the selector"
	case len(results) == 0:
		resp.Message = "No valid data extracted from elements"
	}
	return resp
}

// failureResponse maps an error that survived all retry attempts onto the
// envelope: transport failures keep their cause, anything else lands in the
// catch-all shape. Neither carries a status code.
func failureResponse(err error) Response {
	var nerr *fetcher.NetworkError
	if errors.As(err, &nerr) {
		return Response{
			Success: false,
			Error:   fmt.Sprintf("Request failed: %v", nerr.Err),
			Message: "Network request failed",
		}
	}
	return Response{
		Success: false,
		Error:   fmt.Sprintf("Scraping failed: %v", err),
		Message: "Unexpected error during scraping",
	}
}
