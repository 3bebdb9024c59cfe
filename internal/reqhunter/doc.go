// Package reqhunter provides an HTTP client for the req-hunter scraping service.
//
// # Overview
//
// The client is the console's request gateway. Every call goes to the
// service's /api/v1 prefix with JSON headers and a fresh X-Request-ID, so a
// failing call can be matched to the server's own log lines.
//
//   - client.go: Call (the raw gateway) and the typed endpoint methods
//   - errors.go: HTTPError and error-body extraction
//   - types.go: payloads mirroring the REST schema
//
// # Gateway Semantics
//
// Call returns a Result for 2xx responses. 204 and empty bodies set
// Result.NoContent instead of attempting to decode JSON. Non-2xx responses
// fail with *HTTPError carrying the response body text (HTML pages are reduced
// to their visible text), falling back to the status text. There are no
// retries and no client-side timeout: scrape runs routinely take minutes, and
// the console cancels through the context only when it exits.
//
// # Usage Example
//
//	client, err := reqhunter.NewClient("127.0.0.1:8000")
//	if err != nil {
//		log.Fatalf("init client: %v", err)
//	}
//	page, err := client.ListJobs(ctx, reqhunter.JobQuery{Limit: 50})
//	var httpErr *reqhunter.HTTPError
//	if errors.As(err, &httpErr) {
//		log.Printf("server said %d: %s", httpErr.Status, httpErr.Message)
//	}
package reqhunter
