// Package docapi is the HTTP client for the docflow document API.
//
// # Overview
//
// The document API accepts PDF uploads, runs OCR on them, pushes the pages to
// Label Studio for proofreading and converts the corrected annotations into
// RAGFlow ingestion payloads. This package exposes one method per REST
// endpoint over a single shared transport. It does not retry, cache or
// authenticate, and it does not interpret successful responses: every method
// returns the raw *Response and leaves decoding to the caller (see the
// Decode* helpers in models.go).
//
// # Construction
//
//	s := settings.Resolve(settings.OverridesFromEnv(), settings.Hostname())
//	client := docapi.New(&s, logger)
//
// The base URL is read once, when the client is built. A nil *Settings makes
// the client fall back to http://localhost:8010/api. All requests carry
// "Content-Type: application/json" (uploads use multipart instead) and share
// a 30 second timeout. A Client is immutable and safe for concurrent use;
// callers that want several requests in flight run them in goroutines and
// wait on each independently. No ordering is guaranteed between calls.
//
// # API Endpoints
//
// Documents:
//   - GET    /documents/
//   - POST   /documents/upload/
//   - GET    /documents/:id/
//   - DELETE /documents/:id/
//
// Label Studio:
//   - GET  /documents/:id/to-label-studio/
//   - POST /documents/:id/push-to-labelstudio/
//   - POST /documents/:id/submit-correction/
//
// RAGFlow:
//   - POST /documents/:id/ingest-to-ragflow/
//   - GET  /documents/:id/to-ragflow/
//
// Page images:
//   - GET /images/:document_id/:filename
//
// # Error Handling
//
// Every failed request is logged once and returned as exactly one of:
//   - *ServerError: the server answered with a non-2xx status. Message is
//     the body's "error" field, else its "detail" field, else
//     "request failed".
//   - *ConnectivityError: the request went out but no response came back
//     (network failure or timeout).
//   - *RequestError: the request could not be built or sent at all.
//
// Nothing is retried; that decision belongs to the caller.
package docapi
