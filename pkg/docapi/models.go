package docapi

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
)

// Status is the processing state of a document.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
	StatusCorrected  Status = "corrected"
	StatusIngested   Status = "ingested"
)

// Pushable reports whether the server accepts a push to Label Studio for a
// document in this state.
func (s Status) Pushable() bool {
	switch s {
	case StatusProcessed, StatusCorrected, StatusIngested:
		return true
	default:
		return false
	}
}

// Document is a document as returned by the list and detail endpoints.
type Document struct {
	ID                       int64      `json:"id"`
	OriginalPDFPath          string     `json:"original_pdf_path"`
	MineruJSONPath           string     `json:"mineru_json_path"`
	RawOCRJSON               any        `json:"raw_ocr_json"`
	CorrectedLabelStudioJSON any        `json:"corrected_label_studio_json"`
	Status                   Status     `json:"status"`
	ProcessingLog            string     `json:"processing_log"`
	LabelStudioSynced        bool       `json:"label_studio_synced"`
	LabelStudioTaskIDs       []int64    `json:"label_studio_task_ids"`
	LabelStudioSyncTime      *time.Time `json:"label_studio_sync_time"`
	CreatedAt                time.Time  `json:"created_at"`
}

// PushResult is the body of a successful push to Label Studio. Synced and
// Hint are only set when the document had already been pushed.
type PushResult struct {
	Message   string     `json:"message"`
	Synced    bool       `json:"synced"`
	TaskCount int        `json:"task_count"`
	TaskIDs   []int64    `json:"task_ids"`
	SyncTime  *time.Time `json:"sync_time"`
	Hint      string     `json:"hint"`
}

// Chunk is one text chunk of a RAGFlow payload.
type Chunk struct {
	ContentLtxt string `json:"content_ltxt"`
}

// RAGFlowPayload is the add_chunk payload produced from corrected data.
type RAGFlowPayload struct {
	DocID  string  `json:"doc_id"`
	KBName string  `json:"kb_name"`
	Chunks []Chunk `json:"chunks"`
}

// IngestResult is the body of a successful ingest.
type IngestResult struct {
	Message        string         `json:"message"`
	Document       Document       `json:"document"`
	ChunksCount    int            `json:"chunks_count"`
	RAGFlowPayload RAGFlowPayload `json:"ragflow_payload"`
}

// DecodeDocuments decodes the body of GetDocuments.
func DecodeDocuments(resp *Response) ([]Document, error) {
	var docs []Document
	if err := decode(resp, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DecodeDocument decodes the body of GetDocument or UploadDocument.
func DecodeDocument(resp *Response) (*Document, error) {
	var doc Document
	if err := decode(resp, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodePushResult decodes the body of PushToLabelStudio.
func DecodePushResult(resp *Response) (*PushResult, error) {
	var result PushResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DecodeIngestResult decodes the body of IngestToRagflow.
func DecodeIngestResult(resp *Response) (*IngestResult, error) {
	var result IngestResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DecodeRAGFlowPayload decodes the file returned by ExportToRAGFlow.
func DecodeRAGFlowPayload(resp *Response) (*RAGFlowPayload, error) {
	var payload RAGFlowPayload
	if err := decode(resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// decode goes through a generic value and mapstructure so that timestamps in
// any of the formats Django emits are accepted.
func decode(resp *Response, out any) error {
	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: timeHook,
		TagName:    "json",
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func timeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
