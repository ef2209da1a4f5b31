// Package testserver is an in-memory implementation of the document API,
// used to exercise the client and the CLI end to end.
package testserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"github.com/ocrflow/docflow/pkg/docapi"
)

const (
	// KnowledgeBase is the kb_name written into RAGFlow payloads.
	KnowledgeBase = "test_kb"

	uploadDir = "/data/pdfs_to_process"
)

// Server holds documents and page images in memory.
type Server struct {
	mu         sync.Mutex
	docs       map[int64]*docapi.Document
	images     map[string][]byte
	nextID     int64
	nextTaskID int64

	// labelStudioDown makes pushes fail as if Label Studio were unreachable.
	labelStudioDown bool

	now    func() time.Time
	logger hclog.Logger
	router *mux.Router
}

// New returns an empty server. Routes are mounted under /api.
func New(logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s := &Server{
		docs:       make(map[int64]*docapi.Document),
		images:     make(map[string][]byte),
		nextID:     1,
		nextTaskID: 1,
		now:        time.Now,
		logger:     logger.Named("testserver"),
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/documents/", s.listDocuments).Methods(http.MethodGet)
	api.HandleFunc("/documents/upload/", s.uploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{pk:[0-9]+}/", s.getDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{pk:[0-9]+}/", s.deleteDocument).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{pk:[0-9]+}/to-label-studio/", s.labelStudioTasks).Methods(http.MethodGet)
	api.HandleFunc("/documents/{pk:[0-9]+}/submit-correction/", s.submitCorrection).Methods(http.MethodPost)
	api.HandleFunc("/documents/{pk:[0-9]+}/ingest-to-ragflow/", s.ingestToRagflow).Methods(http.MethodPost)
	api.HandleFunc("/documents/{pk:[0-9]+}/to-ragflow/", s.exportToRagflow).Methods(http.MethodGet)
	api.HandleFunc("/documents/{pk:[0-9]+}/push-to-labelstudio/", s.pushToLabelStudio).Methods(http.MethodPost)
	api.HandleFunc("/images/{document_id}/{filename}", s.serveImage).Methods(http.MethodGet, http.MethodOptions)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddDocument stores doc under a fresh ID and returns the stored copy.
func (s *Server) AddDocument(doc docapi.Document) docapi.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.ID = s.nextID
	s.nextID++
	if doc.Status == "" {
		doc.Status = docapi.StatusPending
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now().UTC()
	}
	if doc.LabelStudioTaskIDs == nil {
		doc.LabelStudioTaskIDs = []int64{}
	}

	s.docs[doc.ID] = &doc
	return doc
}

// Document returns a copy of the stored document.
func (s *Server) Document(id int64) (docapi.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return docapi.Document{}, false
	}
	return *doc, true
}

// AddImage stores a rendered page image.
func (s *Server) AddImage(documentID, filename string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[documentID+"/"+filename] = data
}

// SetLabelStudioDown toggles push failures.
func (s *Server) SetLabelStudioDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labelStudioDown = down
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// lookup returns the document named by the pk route variable. It writes the
// 404 itself and must be called with s.mu held.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*docapi.Document, bool) {
	pk, err := strconv.ParseInt(mux.Vars(r)["pk"], 10, 64)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Document not found")
		return nil, false
	}
	doc, ok := s.docs[pk]
	if !ok {
		s.respondError(w, http.StatusNotFound, "Document not found")
		return nil, false
	}
	return doc, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondAttachment sends data as an indented JSON download.
func (s *Server) respondAttachment(w http.ResponseWriter, filename string, data any) {
	body, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("An unexpected server error occurred: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func pdfStem(doc *docapi.Document) string {
	base := path.Base(doc.OriginalPDFPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

func (s *Server) sortedDocuments() []docapi.Document {
	docs := make([]docapi.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs
}
