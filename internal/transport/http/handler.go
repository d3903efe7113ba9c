package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quizbank"
)

const sessionCookie = "quiz_session"

// Handler exposes the quiz use cases over JSON HTTP. Attempts are keyed by
// an opaque random cookie; the handler owns the cookie, the service owns the
// state behind it.
type Handler struct {
	service *app.QuizService
	logger  *zap.Logger
}

func NewHandler(service *app.QuizService, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Router mounts all quiz routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/", h.start).Methods(http.MethodGet)
	r.HandleFunc("/quiz/start", h.startQuiz).Methods(http.MethodPost)
	r.HandleFunc("/quiz/question", h.question).Methods(http.MethodGet)
	r.HandleFunc("/quiz/answer", h.answer).Methods(http.MethodPost)
	r.HandleFunc("/quiz/results", h.results).Methods(http.MethodGet)
	r.HandleFunc("/quiz/review", h.review).Methods(http.MethodGet)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	bank, err := h.service.BankSummary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizbank.Summarize(bank))
}

func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	var in app.StartInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	sessionID := h.ensureSessionID(w, r)
	view, err := h.service.StartQuiz(r.Context(), sessionID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) question(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.service.CurrentQuestion(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var in app.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	result, err := h.service.SubmitAnswer(r.Context(), sessionID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Results(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	items, err := h.service.Review(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ensureSessionID returns the attempt cookie, minting one on first contact.
func (h *Handler) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		writeJSON(w, http.StatusConflict, errorBody{Error: "no quiz in progress, please start a new test", Redirect: "/"})
		return "", false
	}
	return c.Value, true
}

type errorBody struct {
	Error    string `json:"error,omitempty"`
	Status   string `json:"status,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionCorrupt):
		writeJSON(w, http.StatusConflict, errorBody{Error: "invalid test session, please start a new test", Redirect: "/"})
	case errors.Is(err, domain.ErrTimeExpired):
		// Time's up is finalization, not a failure: point the client at the results.
		writeJSON(w, http.StatusOK, errorBody{Status: "expired", Redirect: "/quiz/results"})
	case errors.Is(err, domain.ErrQuizFinished):
		writeJSON(w, http.StatusOK, errorBody{Status: "finished", Redirect: "/quiz/results"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
