package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"techify-quiz/internal/app"
	"techify-quiz/internal/domain"
	"techify-quiz/internal/infra/remote"
)

// BackendHandler is the remote question backend: it accepts batches of
// question rows on POST /save-quiz and appends them to its own repository.
type BackendHandler struct {
	questions app.QuestionRepository
	target    string
}

// NewBackendHandler stores into questions; target names the destination in
// success messages.
func NewBackendHandler(questions app.QuestionRepository, target string) *BackendHandler {
	return &BackendHandler{questions: questions, target: target}
}

func (h *BackendHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.health)
	mux.HandleFunc("POST "+remote.SaveQuizPath, h.saveQuiz)
}

func (h *BackendHandler) health(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("Backend is running fine!"))
}

func (h *BackendHandler) saveQuiz(w http.ResponseWriter, r *http.Request) {
	var rows []remote.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil || rows == nil {
		writeJSON(w, http.StatusBadRequest, messagePayload{Message: "Invalid data format. Expected an array."})
		return
	}

	// Parse the whole batch before writing so a bad row stores nothing.
	questions := make([]domain.Question, 0, len(rows))
	for i, row := range rows {
		q, err := row.ToQuestion()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messagePayload{Message: fmt.Sprintf("item %d: %v", i, err)})
			return
		}
		questions = append(questions, q)
	}

	for _, q := range questions {
		if err := h.questions.Append(r.Context(), q); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, messagePayload{Message: fmt.Sprintf("Data saved successfully to %s", h.target)})
}
