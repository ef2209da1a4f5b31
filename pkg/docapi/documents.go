package docapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

func documentPath(docID, suffix string) string {
	return fmt.Sprintf("/documents/%s/%s", url.PathEscape(docID), suffix)
}

// GetDocuments lists all documents.
func (c *Client) GetDocuments(ctx context.Context) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/documents/",
	})
}

// UploadDocument uploads a PDF. The content is sent as multipart form data
// under the field "file".
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/documents/upload/",
		form:   &formFile{field: "file", filename: filename, content: content},
	})
}

// GetLabelStudioTasks fetches the raw OCR result of a document as Label
// Studio tasks.
func (c *Client) GetLabelStudioTasks(ctx context.Context, docID string) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   documentPath(docID, "to-label-studio/"),
	})
}

// IngestToRagflow submits proofread data for a document. correctedData is
// sent as the JSON body; a nil value sends no body.
func (c *Client) IngestToRagflow(ctx context.Context, docID string, correctedData any) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   documentPath(docID, "ingest-to-ragflow/"),
		body:   correctedData,
	})
}

// IngestToRagflowFile is IngestToRagflow with the corrected data uploaded as
// a JSON file instead of a request body.
func (c *Client) IngestToRagflowFile(ctx context.Context, docID, filename string, content io.Reader) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   documentPath(docID, "ingest-to-ragflow/"),
		form:   &formFile{field: "file", filename: filename, content: content},
	})
}

// DeleteDocument deletes a document.
func (c *Client) DeleteDocument(ctx context.Context, docID string) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   documentPath(docID, ""),
	})
}

// GetDocument fetches a single document.
func (c *Client) GetDocument(ctx context.Context, docID string) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   documentPath(docID, ""),
	})
}

// ExportToRAGFlow downloads the RAGFlow payload of a document. The body is
// returned as is and never parsed.
func (c *Client) ExportToRAGFlow(ctx context.Context, docID string) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   documentPath(docID, "to-ragflow/"),
	})
}

// PushToLabelStudio pushes a document's pages to Label Studio. Unless force
// is set the server skips documents that were already pushed.
func (c *Client) PushToLabelStudio(ctx context.Context, docID string, force bool) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   documentPath(docID, "push-to-labelstudio/"),
		body:   map[string]bool{"force": force},
	})
}

// SubmitCorrection uploads a Label Studio export file with the corrected
// annotations of a document.
func (c *Client) SubmitCorrection(ctx context.Context, docID, filename string, content io.Reader) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   documentPath(docID, "submit-correction/"),
		form:   &formFile{field: "file", filename: filename, content: content},
	})
}

// GetPageImage downloads a rendered page image, as served to Label Studio.
func (c *Client) GetPageImage(ctx context.Context, documentID, filename string) (*Response, error) {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/images/%s/%s", url.PathEscape(documentID), url.PathEscape(filename)),
	})
}
