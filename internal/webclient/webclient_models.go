package webclient

import (
	"net/http"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
	// FollowRedirects selects which of the owned clients executes the
	// request; redirect policy is per request, not per client.
	FollowRedirects bool
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	// FinalURL is the URL of the response actually returned, after any
	// redirects were followed.
	FinalURL  string
	FetchedAt time.Time
}
