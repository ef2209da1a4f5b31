// Package export persists RAGFlow payloads downloaded from the document API.
package export

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ocrflow/docflow/pkg/docapi"
)

// DefaultContentType is used when the server does not name one.
const DefaultContentType = "application/json"

// Sink stores exported artifacts.
type Sink interface {
	// Name identifies the sink in logs and output.
	Name() string

	// Write stores the artifact and returns where it was written.
	Write(ctx context.Context, a Artifact) (string, error)
}

// Artifact is one exported file.
type Artifact struct {
	DocID       string
	Filename    string
	ContentType string
	Body        []byte
}

// ArtifactFromResponse wraps an ExportToRAGFlow response. The filename comes
// from Content-Disposition when the server sent one.
func ArtifactFromResponse(docID string, resp *docapi.Response) Artifact {
	filename := sanitizeFilename(resp.Filename())
	if filename == "" {
		filename = fmt.Sprintf("%s_ragflow_payload.json", sanitizeFilename(docID))
	}

	contentType := resp.ContentType()
	if contentType == "" {
		contentType = DefaultContentType
	}

	return Artifact{
		DocID:       docID,
		Filename:    filename,
		ContentType: contentType,
		Body:        resp.Body,
	}
}

// sanitizeFilename strips any directory component so a server supplied name
// cannot escape the destination.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
