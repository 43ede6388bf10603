package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"techify-quiz/internal/app"
	"techify-quiz/internal/domain"
)

// SessionHeader carries the login token returned by POST /api/login.
const SessionHeader = "X-Session-Token"

// APIHandler exposes the quiz use cases as a JSON API.
type APIHandler struct {
	service *app.QuizService
}

func NewAPIHandler(service *app.QuizService) *APIHandler {
	return &APIHandler{service: service}
}

// Register mounts the API routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/menu", h.menu)
	mux.HandleFunc("POST /api/quiz", h.startQuiz)
	mux.HandleFunc("PUT /api/quiz/responses/{index}", h.recordResponse)
	mux.HandleFunc("GET /api/quiz/score", h.score)
	mux.HandleFunc("POST /api/quiz/submit", h.submitQuiz)
	mux.HandleFunc("POST /api/questions", h.addQuestion)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token string   `json:"token"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Menu  []string `json:"menu"`
}

type choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type questionView struct {
	Index   int      `json:"index"`
	Type    string   `json:"type"`
	Prompt  string   `json:"question"`
	Choices []choice `json:"choices,omitempty"`
}

type startQuizResponse struct {
	Total     int            `json:"total"`
	Questions []questionView `json:"questions"`
	Message   string         `json:"message,omitempty"`
}

type responseRequest struct {
	Value string `json:"value"`
}

type submitResponse struct {
	Score   domain.Score            `json:"score"`
	Entry   domain.LeaderboardEntry `json:"entry"`
	Message string                  `json:"message"`
}

type addQuestionRequest struct {
	Type    string            `json:"type"`
	Prompt  string            `json:"question"`
	Options map[string]string `json:"options"`
	Answer  string            `json:"answer"`
}

type messagePayload struct {
	Message string `json:"message"`
}

func (h *APIHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messagePayload{Message: "invalid login payload"})
		return
	}
	session, err := h.service.Login(r.Context(), domain.Identity{Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(w, err)
		return
	}
	identity := session.Identity()
	writeJSON(w, http.StatusOK, loginResponse{
		Token: session.Token(),
		Name:  identity.Name,
		Email: identity.Email,
		Menu:  app.Menu,
	})
}

func (h *APIHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), r.Header.Get(SessionHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) menu(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Session(r.Context(), r.Header.Get(SessionHeader)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"menu": app.Menu})
}

func (h *APIHandler) startQuiz(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.StartQuiz(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := startQuizResponse{Total: len(questions), Questions: make([]questionView, 0, len(questions))}
	for i, q := range questions {
		view := questionView{Index: i, Type: string(q.Type), Prompt: q.Prompt}
		if q.Type != domain.FillBlank {
			for _, key := range q.OptionKeys() {
				view.Choices = append(view.Choices, choice{Key: key, Text: q.Options[key]})
			}
		}
		resp.Questions = append(resp.Questions, view)
	}
	if len(questions) == 0 {
		resp.Message = "no questions available"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) recordResponse(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messagePayload{Message: "invalid question index"})
		return
	}
	var req responseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messagePayload{Message: "invalid response payload"})
		return
	}
	if err := h.service.RecordResponse(r.Context(), r.Header.Get(SessionHeader), index, req.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) score(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.Score(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *APIHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	score, entry, err := h.service.SubmitQuiz(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Score:   score,
		Entry:   entry,
		Message: "Your Score: " + score.String(),
	})
}

func (h *APIHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messagePayload{Message: "invalid question payload"})
		return
	}
	q, err := domain.NewQuestion(domain.QuestionType(req.Type), req.Prompt, req.Options, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.AddQuestion(r.Context(), r.Header.Get(SessionHeader), q); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messagePayload{Message: "Question added successfully!"})
}

func (h *APIHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response failed: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses. A remote backend failure
// surfaces the backend's response body verbatim.
func writeError(w http.ResponseWriter, err error) {
	var remoteErr *domain.RemoteError
	switch {
	case errors.As(err, &remoteErr):
		msg := remoteErr.Body
		if remoteErr.StatusCode == 0 {
			msg = remoteErr.Error()
		}
		writeJSON(w, http.StatusBadGateway, messagePayload{Message: msg})
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, messagePayload{Message: err.Error()})
	case errors.Is(err, domain.ErrMissingIdentity),
		errors.Is(err, domain.ErrQuestionIndex),
		errors.Is(err, domain.ErrUnknownQuestionType),
		errors.Is(err, domain.ErrMalformedRow):
		writeJSON(w, http.StatusBadRequest, messagePayload{Message: err.Error()})
	case errors.Is(err, domain.ErrNoActiveQuiz):
		writeJSON(w, http.StatusConflict, messagePayload{Message: err.Error()})
	default:
		log.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messagePayload{Message: "internal error"})
	}
}
