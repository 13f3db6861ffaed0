package httpclient

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnexpectedStatus marks responses outside the 2xx range.
var ErrUnexpectedStatus = errors.New("unexpected response status")

const maxSnippetLen = 512

// IsSuccess reports whether the status code is in the 2xx range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// Snippet returns a short, single-line description of a response body for
// error messages. HTML error pages are reduced to their title.
func Snippet(body []byte, contentType string) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return "<empty>"
	}
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		if title := htmlTitle(body); title != "" {
			return title
		}
	}
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	return s
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return title
}
