package adapthttp

import (
	"encoding/json"
	"io"
	"net/http"

	"artesanal/internal/domain"
)

// handleContact queues a contact form submission for later delivery.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.enqueueForm(w, r, domain.FormContact)
}

// handleNewsletter queues a newsletter signup for later delivery.
func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	s.enqueueForm(w, r, domain.FormNewsletter)
}

// enqueueForm stores the raw submission in the outbox and acknowledges with
// 202. Delivery to the upstream endpoint happens on the next drain.
func (s *Server) enqueueForm(w http.ResponseWriter, r *http.Request, kind domain.FormKind) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	id, err := s.outbox.Enqueue(r.Context(), kind, body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true, "id": id})
}
