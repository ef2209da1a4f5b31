package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ocrflow/docflow/pkg/docapi"
)

const maxUploadSize = 32 << 20

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	docs := s.sortedDocuments()
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if _, err := io.Copy(io.Discard, file); err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	doc := s.AddDocument(docapi.Document{
		OriginalPDFPath: path.Join(uploadDir, path.Base(header.Filename)),
		Status:          docapi.StatusPending,
	})
	s.respondJSON(w, http.StatusAccepted, doc)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	delete(s.docs, doc.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) labelStudioTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if isEmpty(doc.RawOCRJSON) {
		s.respondError(w, http.StatusBadRequest, "No raw OCR JSON found for this document. Processing may have failed.")
		return
	}
	s.respondAttachment(w, pdfStem(doc)+"_raw_ocr.json", doc.RawOCRJSON)
}

func (s *Server) submitCorrection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	if data == nil {
		s.respondError(w, http.StatusBadRequest, "No JSON file provided in 'file' field")
		return
	}

	tasks, ok := s.parseTasks(w, data)
	if !ok {
		return
	}

	doc.CorrectedLabelStudioJSON = tasks
	doc.Status = docapi.StatusCorrected
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) ingestToRagflow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var data []byte
	if isMultipart(r) {
		if data, ok = s.readUpload(w, r); !ok {
			return
		}
	} else {
		var err error
		if data, err = io.ReadAll(r.Body); err != nil {
			s.respondError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
	}

	tasks, ok := s.parseTasks(w, data)
	if !ok {
		return
	}

	chunks := buildChunks(tasks, true)
	doc.CorrectedLabelStudioJSON = tasks
	doc.Status = docapi.StatusIngested

	s.respondJSON(w, http.StatusOK, docapi.IngestResult{
		Message:        "Corrected data saved and converted to RAGFlow format",
		Document:       *doc,
		ChunksCount:    len(chunks),
		RAGFlowPayload: s.payload(doc, chunks),
	})
}

func (s *Server) exportToRagflow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	tasks, _ := doc.CorrectedLabelStudioJSON.([]any)
	if len(tasks) == 0 {
		s.respondError(w, http.StatusBadRequest, "No corrected data found. Upload a correction file first.")
		return
	}

	payload := s.payload(doc, buildChunks(tasks, false))
	doc.Status = docapi.StatusIngested
	s.respondAttachment(w, pdfStem(doc)+"_ragflow_payload.json", payload)
}

type pushRequest struct {
	Force bool `json:"force"`
}

func (s *Server) pushToLabelStudio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if !doc.Status.Pushable() {
		s.respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Document has not finished processing and cannot be pushed",
			"status": doc.Status,
		})
		return
	}

	var req pushRequest
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	if doc.LabelStudioSynced && !req.Force {
		s.respondJSON(w, http.StatusOK, docapi.PushResult{
			Message:  "Document already pushed to Label Studio",
			Synced:   true,
			TaskIDs:  doc.LabelStudioTaskIDs,
			SyncTime: doc.LabelStudioSyncTime,
			Hint:     "Set force=true to push again",
		})
		return
	}

	if s.labelStudioDown {
		s.respondError(w, http.StatusInternalServerError, "Push to Label Studio failed, check the configuration and logs")
		return
	}

	pages := pageCount(doc.RawOCRJSON)
	taskIDs := make([]int64, 0, pages)
	for i := 0; i < pages; i++ {
		taskIDs = append(taskIDs, s.nextTaskID)
		s.nextTaskID++
	}
	syncTime := s.now().UTC()

	doc.LabelStudioSynced = true
	doc.LabelStudioTaskIDs = taskIDs
	doc.LabelStudioSyncTime = &syncTime

	s.respondJSON(w, http.StatusOK, docapi.PushResult{
		Message:   fmt.Sprintf("Pushed %d tasks to Label Studio", pages),
		TaskCount: pages,
		TaskIDs:   taskIDs,
		SyncTime:  &syncTime,
	})
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "*")
	if r.Method == http.MethodOptions {
		return
	}

	vars := mux.Vars(r)
	documentID, filename := vars["document_id"], vars["filename"]

	s.mu.Lock()
	data, ok := s.images[documentID+"/"+filename]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readUpload returns the content of the "file" form field, or nil when the
// request has none.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if !isMultipart(r) {
		return nil, true
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, true
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to read file")
		return nil, false
	}
	return data, true
}

// parseTasks decodes a Label Studio export, which must be a list of tasks.
func (s *Server) parseTasks(w http.ResponseWriter, data []byte) ([]any, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		s.respondError(w, http.StatusBadRequest, "Uploaded file is not a valid JSON.")
		return nil, false
	}
	tasks, ok := v.([]any)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON format. Expected a list of tasks.")
		return nil, false
	}
	return tasks, true
}

func (s *Server) payload(doc *docapi.Document, chunks []docapi.Chunk) docapi.RAGFlowPayload {
	return docapi.RAGFlowPayload{
		DocID:  path.Base(doc.OriginalPDFPath),
		KBName: KnowledgeBase,
		Chunks: chunks,
	}
}

// buildChunks joins the transcriptions of each page into one chunk per page.
// With declaredPages a task's data.page_num names its page and blank pages
// are dropped; otherwise the task position is the page.
func buildChunks(tasks []any, declaredPages bool) []docapi.Chunk {
	pages := make(map[int][]string)

	for i, t := range tasks {
		task, _ := t.(map[string]any)
		annotations := firstList(task, "annotations", "completions")
		if len(annotations) == 0 {
			continue
		}
		first, _ := annotations[0].(map[string]any)
		results, _ := first["result"].([]any)

		page := i + 1
		if declaredPages {
			if data, ok := task["data"].(map[string]any); ok {
				if n, ok := data["page_num"].(float64); ok {
					page = int(n)
				}
			}
		}

		for _, item := range results {
			region, _ := item.(map[string]any)
			if region["type"] != "textarea" {
				continue
			}
			if _, seen := pages[page]; !seen {
				pages[page] = []string{}
			}
			value, _ := region["value"].(map[string]any)
			text, _ := value["text"].([]any)
			if len(text) > 0 {
				if line, ok := text[0].(string); ok {
					pages[page] = append(pages[page], line)
				}
			}
		}
	}

	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	chunks := []docapi.Chunk{}
	for _, n := range nums {
		text := strings.Join(pages[n], "\n")
		if declaredPages && strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, docapi.Chunk{ContentLtxt: text})
	}
	return chunks
}

func firstList(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if l, ok := m[k].([]any); ok && len(l) > 0 {
			return l
		}
	}
	return nil
}

// pageCount returns the number of distinct pages in a MinerU content list,
// one Label Studio task per page.
func pageCount(raw any) int {
	blocks, ok := raw.([]any)
	if !ok || len(blocks) == 0 {
		return 1
	}
	pages := make(map[float64]struct{})
	for _, b := range blocks {
		block, _ := b.(map[string]any)
		if idx, ok := block["page_idx"].(float64); ok {
			pages[idx] = struct{}{}
		}
	}
	if len(pages) == 0 {
		return 1
	}
	return len(pages)
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case string:
		return v == ""
	}
	return false
}
