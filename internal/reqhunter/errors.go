package reqhunter

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// maxErrorBody bounds how much of a failed response is read into the message.
const maxErrorBody = 64 * 1024

// HTTPError is returned for non-2xx responses. Message is the response body
// text, or the status text when the body is empty or unreadable.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}

func newHTTPError(resp *http.Response) *HTTPError {
	statusText := http.StatusText(resp.StatusCode)
	if statusText == "" {
		statusText = resp.Status
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &HTTPError{Status: resp.StatusCode, Message: statusText}
	}
	text := string(raw)
	if isHTML(resp.Header.Get("Content-Type")) {
		text = htmlText(text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = statusText
	}
	return &HTTPError{Status: resp.StatusCode, Message: text}
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}

// htmlText flattens an HTML error page (typically from a reverse proxy) into
// its visible text, collapsing whitespace.
func htmlText(doc string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(doc))
	var parts []string
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" || tag == "title" {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); (tag == "script" || tag == "style" || tag == "title") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.Join(strings.Fields(string(tokenizer.Text())), " "); text != "" {
				parts = append(parts, text)
			}
		}
	}
}
