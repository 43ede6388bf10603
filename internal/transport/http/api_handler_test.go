package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techify-quiz/internal/app"
	"techify-quiz/internal/domain"
	"techify-quiz/internal/infra/memory"
	"techify-quiz/internal/infra/remote"
)

func TestTakeQuizFlow(t *testing.T) {
	server, _ := newTestServer(sampleQuestions())
	defer server.Close()

	token := login(t, server, "Alice", "alice@example.com")

	var started startQuizResponse
	doJSON(t, server, http.MethodPost, "/api/quiz", token, nil, http.StatusOK, &started)
	if started.Total != 3 || len(started.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %+v", started)
	}
	if len(started.Questions[0].Choices) != 2 || started.Questions[0].Choices[1].Text != "4" {
		t.Fatalf("expected multiple choice options, got %+v", started.Questions[0])
	}
	if started.Questions[2].Choices != nil {
		t.Fatalf("expected no choices for fill in the blank, got %+v", started.Questions[2])
	}

	doJSON(t, server, http.MethodPut, "/api/quiz/responses/0", token, responseRequest{Value: "4"}, http.StatusNoContent, nil)
	doJSON(t, server, http.MethodPut, "/api/quiz/responses/1", token, responseRequest{Value: "true"}, http.StatusNoContent, nil)
	doJSON(t, server, http.MethodPut, "/api/quiz/responses/7", token, responseRequest{Value: "x"}, http.StatusBadRequest, nil)

	var score domain.Score
	doJSON(t, server, http.MethodGet, "/api/quiz/score", token, nil, http.StatusOK, &score)
	if score.Correct != 2 || score.Total != 3 {
		t.Fatalf("expected 2/3, got %+v", score)
	}

	var submitted submitResponse
	doJSON(t, server, http.MethodPost, "/api/quiz/submit", token, nil, http.StatusOK, &submitted)
	if submitted.Message != "Your Score: 2/3" || submitted.Entry.Name != "Alice" {
		t.Fatalf("unexpected submit response %+v", submitted)
	}

	// The attempt is discarded after submission.
	doJSON(t, server, http.MethodPost, "/api/quiz/submit", token, nil, http.StatusConflict, nil)

	var lb domain.Leaderboard
	doJSON(t, server, http.MethodGet, "/api/leaderboard", "", nil, http.StatusOK, &lb)
	if len(lb.Entries) != 1 || lb.Entries[0].Score != 2 {
		t.Fatalf("expected one leaderboard entry with score 2, got %+v", lb.Entries)
	}
}

func TestLoginRequiresNameAndEmail(t *testing.T) {
	server, _ := newTestServer(nil)
	defer server.Close()

	doJSON(t, server, http.MethodPost, "/api/login", "", loginRequest{Name: "Bob"}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodGet, "/api/menu", "missing-token", nil, http.StatusUnauthorized, nil)
}

func TestLogoutEndsSession(t *testing.T) {
	server, _ := newTestServer(nil)
	defer server.Close()

	token := login(t, server, "Carol", "carol@example.com")
	var menu map[string][]string
	doJSON(t, server, http.MethodGet, "/api/menu", token, nil, http.StatusOK, &menu)
	if len(menu["menu"]) != 4 || menu["menu"][3] != "Logout" {
		t.Fatalf("unexpected menu %+v", menu)
	}
	doJSON(t, server, http.MethodPost, "/api/logout", token, nil, http.StatusNoContent, nil)
	doJSON(t, server, http.MethodPost, "/api/quiz", token, nil, http.StatusUnauthorized, nil)
}

func TestStartQuizWithoutQuestions(t *testing.T) {
	server, _ := newTestServer(nil)
	defer server.Close()

	token := login(t, server, "Dan", "dan@example.com")
	var started startQuizResponse
	doJSON(t, server, http.MethodPost, "/api/quiz", token, nil, http.StatusOK, &started)
	if started.Total != 0 || started.Message != "no questions available" {
		t.Fatalf("expected empty quiz message, got %+v", started)
	}
}

func TestAddQuestion(t *testing.T) {
	server, questions := newTestServer(nil)
	defer server.Close()

	token := login(t, server, "Eve", "eve@example.com")
	doJSON(t, server, http.MethodPost, "/api/questions", token, addQuestionRequest{
		Type:   "True or False",
		Prompt: "Go compiles to native code",
		Answer: "True",
	}, http.StatusCreated, nil)
	doJSON(t, server, http.MethodPost, "/api/questions", token, addQuestionRequest{
		Type:   "Essay",
		Prompt: "Explain channels",
	}, http.StatusBadRequest, nil)

	stored, _ := questions.Load(context.Background())
	if len(stored) != 1 || stored[0].Options["B"] != "False" {
		t.Fatalf("expected stored true/false question, got %+v", stored)
	}
}

func TestAddQuestionRemoteFailureSurfacesBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("disk full\n"))
	}))
	defer backend.Close()

	repo := remote.NewQuestionRepository(backend.URL, time.Second, memory.NewQuestionRepository(nil))
	server := newTestServerWith(repo)
	defer server.Close()

	token := login(t, server, "Frank", "frank@example.com")
	var failed messagePayload
	doJSON(t, server, http.MethodPost, "/api/questions", token, addQuestionRequest{
		Type:   "True or False",
		Prompt: "Backends never fail",
		Answer: "False",
	}, http.StatusBadGateway, &failed)
	if failed.Message != "disk full\n" {
		t.Fatalf("expected backend body verbatim, got %q", failed.Message)
	}

	var started startQuizResponse
	doJSON(t, server, http.MethodPost, "/api/quiz", token, nil, http.StatusOK, &started)
	if started.Total != 0 {
		t.Fatalf("expected no phantom question after failed append, got %d", started.Total)
	}
}

func newTestServer(seed []domain.Question) (*httptest.Server, *memory.QuestionRepository) {
	questions := memory.NewQuestionRepository(seed)
	return newTestServerWith(questions), questions
}

func newTestServerWith(questions app.QuestionRepository) *httptest.Server {
	service := app.NewQuizService(memory.NewSessionStore(), questions, memory.NewLeaderboardStore())
	mux := http.NewServeMux()
	NewAPIHandler(service).Register(mux)
	mux.HandleFunc("/ws/leaderboard", NewWSHandler(service).ServeLeaderboard)
	return httptest.NewServer(mux)
}

func login(t *testing.T, server *httptest.Server, name, email string) string {
	t.Helper()
	var resp loginResponse
	doJSON(t, server, http.MethodPost, "/api/login", "", loginRequest{Name: name, Email: email}, http.StatusOK, &resp)
	if resp.Token == "" {
		t.Fatalf("expected session token")
	}
	return resp.Token
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set(SessionHeader, token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Type: domain.MultipleChoice, Prompt: "What is 2 + 2?", Options: map[string]string{"A": "3", "B": "4"}, Answer: "B"},
		{Type: domain.TrueFalse, Prompt: "Go has goroutines", Options: map[string]string{"A": "True", "B": "False"}, Answer: "True"},
		{Type: domain.FillBlank, Prompt: "Capital of France", Options: map[string]string{}, Answer: "Paris"},
	}
}
