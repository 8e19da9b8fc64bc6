package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-risk-service/internal/logger"
)

// NewRouter wires REST and websocket routes. Every route except /healthz
// requires gateway identity headers; review routes require the teacher role.
func NewRouter(h *Handler, ws *WSHandler, log *logger.Logger) *mux.Router {
	if log == nil {
		log = logger.Nop()
	}
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	quiz := r.PathPrefix("/quiz").Subrouter()
	quiz.Use(withIdentity)
	quiz.HandleFunc("/generate", h.generateQuiz).Methods(http.MethodPost)
	quiz.HandleFunc("/submit", h.submitQuiz).Methods(http.MethodPost)
	quiz.HandleFunc("/history", h.history).Methods(http.MethodGet)

	teacher := quiz.NewRoute().Subrouter()
	teacher.Use(requireTeacher)
	teacher.HandleFunc("/all-submissions", h.allSubmissions).Methods(http.MethodGet)
	teacher.HandleFunc("/submissions/{id}", h.submission).Methods(http.MethodGet)
	teacher.HandleFunc("/teacher-comment", h.teacherComment).Methods(http.MethodPost)
	teacher.HandleFunc("/teacher-submit/{id}", h.teacherSubmit).Methods(http.MethodPost)
	teacher.HandleFunc("/teacher-submit-bulk", h.teacherSubmitBulk).Methods(http.MethodPost)

	feed := r.PathPrefix("/ws").Subrouter()
	feed.Use(withIdentity, requireTeacher)
	feed.HandleFunc("/reviews", ws.ServeWS).Methods(http.MethodGet)

	return r
}
