package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocrflow/docflow/pkg/docapi"
)

const correctedTasks = `[
	{
		"data": {"page_num": 2},
		"annotations": [{"result": [
			{"type": "rectanglelabels", "value": {"rectanglelabels": ["Para"]}},
			{"type": "textarea", "value": {"text": ["second page"]}}
		]}]
	},
	{
		"data": {"page_num": 1},
		"annotations": [{"result": [
			{"type": "textarea", "value": {"text": ["first line"]}},
			{"type": "textarea", "value": {"text": ["second line"]}}
		]}]
	},
	{
		"data": {"page_num": 3},
		"annotations": [{"result": [{"type": "textarea", "value": {"text": ["  "]}}]}]
	},
	{"data": {"page_num": 4}, "annotations": []}
]`

func setup(t *testing.T) (*Server, *docapi.Client) {
	t.Helper()

	backend := New(hclog.NewNullLogger())
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client := docapi.NewClient(docapi.Config{
		BaseURL: srv.URL + "/api",
		Logger:  hclog.NewNullLogger(),
	})
	return backend, client
}

func TestUploadAndList(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()

	resp, err := client.UploadDocument(ctx, "report.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	doc, err := docapi.DecodeDocument(resp)
	require.NoError(t, err)
	assert.Equal(t, docapi.StatusPending, doc.Status)
	assert.Equal(t, "/data/pdfs_to_process/report.pdf", doc.OriginalPDFPath)

	_, err = client.UploadDocument(ctx, "other.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)

	resp, err = client.GetDocuments(ctx)
	require.NoError(t, err)
	docs, err := docapi.DecodeDocuments(resp)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/data/pdfs_to_process/other.pdf", docs[0].OriginalPDFPath, "newest first")
}

func TestUploadWithoutFile(t *testing.T) {
	backend := New(nil)
	srv := httptest.NewServer(backend)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/documents/upload/", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetAndDelete(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()
	doc := backend.AddDocument(docapi.Document{OriginalPDFPath: "/data/a.pdf"})

	_, err := client.GetDocument(ctx, "99")
	require.Error(t, err)
	assert.Equal(t, "Document not found", err.Error())
	assert.Equal(t, http.StatusNotFound, docapi.StatusCode(err))

	resp, err := client.DeleteDocument(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, ok := backend.Document(doc.ID)
	assert.False(t, ok)

	_, err = client.DeleteDocument(ctx, "1")
	assert.Equal(t, http.StatusNotFound, docapi.StatusCode(err))
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	_, client := setup(t)

	_, err := client.GetDocument(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, docapi.IsServerError(err))
	assert.Equal(t, docapi.MessageRequestFailed, err.Error())
}

func TestLabelStudioTasks(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()

	backend.AddDocument(docapi.Document{OriginalPDFPath: "/data/empty.pdf"})
	_, err := client.GetLabelStudioTasks(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, docapi.StatusCode(err))

	backend.AddDocument(docapi.Document{
		OriginalPDFPath: "/data/scan.pdf",
		RawOCRJSON:      []any{map[string]any{"type": "text", "text": "hi", "page_idx": float64(0)}},
	})
	resp, err := client.GetLabelStudioTasks(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "scan_raw_ocr.json", resp.Filename())
	assert.JSONEq(t, `[{"type": "text", "text": "hi", "page_idx": 0}]`, string(resp.Body))
}

func TestPushToLabelStudio(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()

	backend.AddDocument(docapi.Document{Status: docapi.StatusProcessing})
	_, err := client.PushToLabelStudio(ctx, "1", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, docapi.StatusCode(err))

	backend.AddDocument(docapi.Document{
		Status: docapi.StatusProcessed,
		RawOCRJSON: []any{
			map[string]any{"page_idx": float64(0)},
			map[string]any{"page_idx": float64(0)},
			map[string]any{"page_idx": float64(1)},
		},
	})

	resp, err := client.PushToLabelStudio(ctx, "2", false)
	require.NoError(t, err)
	first, err := docapi.DecodePushResult(resp)
	require.NoError(t, err)
	assert.Equal(t, 2, first.TaskCount)
	assert.Equal(t, []int64{1, 2}, first.TaskIDs)
	assert.False(t, first.Synced)

	resp, err = client.PushToLabelStudio(ctx, "2", false)
	require.NoError(t, err)
	again, err := docapi.DecodePushResult(resp)
	require.NoError(t, err)
	assert.True(t, again.Synced)
	assert.NotEmpty(t, again.Hint)
	assert.Equal(t, []int64{1, 2}, again.TaskIDs)

	resp, err = client.PushToLabelStudio(ctx, "2", true)
	require.NoError(t, err)
	forced, err := docapi.DecodePushResult(resp)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, forced.TaskIDs)

	doc, _ := backend.Document(2)
	assert.True(t, doc.LabelStudioSynced)
	assert.Equal(t, []int64{3, 4}, doc.LabelStudioTaskIDs)
	assert.NotNil(t, doc.LabelStudioSyncTime)

	backend.SetLabelStudioDown(true)
	_, err = client.PushToLabelStudio(ctx, "2", true)
	assert.Equal(t, http.StatusInternalServerError, docapi.StatusCode(err))
}

func TestIngestToRagflow(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()
	backend.AddDocument(docapi.Document{OriginalPDFPath: "/data/report.pdf", Status: docapi.StatusProcessed})

	var tasks []any
	require.NoError(t, jsonUnmarshal(correctedTasks, &tasks))

	resp, err := client.IngestToRagflow(ctx, "1", tasks)
	require.NoError(t, err)

	result, err := docapi.DecodeIngestResult(resp)
	require.NoError(t, err)
	assert.Equal(t, docapi.StatusIngested, result.Document.Status)
	assert.Equal(t, 2, result.ChunksCount)
	assert.Equal(t, "report.pdf", result.RAGFlowPayload.DocID)
	assert.Equal(t, KnowledgeBase, result.RAGFlowPayload.KBName)
	assert.Equal(t, []docapi.Chunk{
		{ContentLtxt: "first line\nsecond line"},
		{ContentLtxt: "second page"},
	}, result.RAGFlowPayload.Chunks)
}

func TestIngestToRagflowFile(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()
	backend.AddDocument(docapi.Document{OriginalPDFPath: "/data/report.pdf"})

	resp, err := client.IngestToRagflowFile(ctx, "1", "export.json", strings.NewReader(correctedTasks))
	require.NoError(t, err)
	result, err := docapi.DecodeIngestResult(resp)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ChunksCount)

	_, err = client.IngestToRagflow(ctx, "1", map[string]any{"not": "a list"})
	require.Error(t, err)
	assert.Equal(t, "Invalid JSON format. Expected a list of tasks.", err.Error())
}

func TestSubmitCorrectionAndExport(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()
	backend.AddDocument(docapi.Document{OriginalPDFPath: "/data/report.pdf", Status: docapi.StatusProcessed})

	_, err := client.ExportToRAGFlow(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, docapi.StatusCode(err))

	_, err = client.SubmitCorrection(ctx, "1", "export.json", strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Equal(t, "Uploaded file is not a valid JSON.", err.Error())

	resp, err := client.SubmitCorrection(ctx, "1", "export.json", strings.NewReader(correctedTasks))
	require.NoError(t, err)
	doc, err := docapi.DecodeDocument(resp)
	require.NoError(t, err)
	assert.Equal(t, docapi.StatusCorrected, doc.Status)

	resp, err = client.ExportToRAGFlow(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "report_ragflow_payload.json", resp.Filename())

	payload, err := docapi.DecodeRAGFlowPayload(resp)
	require.NoError(t, err)
	// Export keys pages by position and keeps blank pages.
	assert.Equal(t, []docapi.Chunk{
		{ContentLtxt: "second page"},
		{ContentLtxt: "first line\nsecond line"},
		{ContentLtxt: "  "},
	}, payload.Chunks)

	stored, _ := backend.Document(1)
	assert.Equal(t, docapi.StatusIngested, stored.Status)
}

func TestServeImage(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()
	backend.AddImage("doc_1", "page-0001.png", []byte("\x89PNG"))

	resp, err := client.GetPageImage(ctx, "doc_1", "page-0001.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType())
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []byte("\x89PNG"), resp.Body)

	_, err = client.GetPageImage(ctx, "doc_1", "missing.png")
	assert.Equal(t, http.StatusNotFound, docapi.StatusCode(err))
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
