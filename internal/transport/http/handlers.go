package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"quiz-risk-service/internal/app"
	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/logger"
)

// Handler exposes the quiz use cases over REST.
type Handler struct {
	submissions *app.SubmissionService
	reviews     *app.ReviewService
	quizzes     *app.QuizService
	log         *logger.Logger
}

func NewHandler(submissions *app.SubmissionService, reviews *app.ReviewService, quizzes *app.QuizService, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{submissions: submissions, reviews: reviews, quizzes: quizzes, log: log}
}

type generateRequest struct {
	Prompt string            `json:"prompt"`
	Config domain.QuizConfig `json:"config"`
}

type generateResponse struct {
	Success   bool              `json:"success"`
	QuizID    string            `json:"quizId"`
	Questions []domain.Question `json:"questions"`
}

func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.quizzes.Generate(r.Context(), userFrom(r.Context()), req.Prompt, req.Config)
	if err != nil {
		h.log.Warn("quiz generation failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Success: true, QuizID: quiz.ID, Questions: quiz.Questions})
}

type submitResponse struct {
	Success          bool                   `json:"success"`
	SubmissionID     string                 `json:"submissionId"`
	Score            float64                `json:"score"`
	CorrectAnswers   int                    `json:"correctAnswers"`
	TotalQuestions   int                    `json:"totalQuestions"`
	SkillPerformance domain.SkillPerformance `json:"skillPerformance"`
	Strengths        []domain.SkillCategory `json:"strengths"`
	Weaknesses       []domain.SkillCategory `json:"weaknesses"`
	Status           domain.ReviewStatus    `json:"status"`
	Message          string                 `json:"message"`
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.submissions.Submit(r.Context(), userFrom(r.Context()), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Success:          true,
		SubmissionID:     result.ID,
		Score:            result.Score,
		CorrectAnswers:   result.CorrectAnswers,
		TotalQuestions:   result.TotalQuestions,
		SkillPerformance: result.SkillPerformance,
		Strengths:        result.Strengths,
		Weaknesses:       result.Weaknesses,
		Status:           result.Status,
		Message:          "Quiz submitted for teacher review",
	})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	results, err := h.submissions.History(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": results})
}

func (h *Handler) allSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "submissions": subs})
}

func (h *Handler) submission(w http.ResponseWriter, r *http.Request) {
	result, err := h.submissions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "submission": result})
}

type commentRequest struct {
	SubmissionID string `json:"submissionId"`
	Comments     string `json:"comments"`
}

func (h *Handler) teacherComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.reviews.Comment(r.Context(), userFrom(r.Context()), req.SubmissionID, req.Comments); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Comment added successfully"})
}

type completeResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
	Explanation     string   `json:"explanation"`
}

func (h *Handler) teacherSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviews.Complete(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completeResponse{
		Success:         true,
		Message:         "Quiz submitted successfully with AI recommendations",
		Recommendations: result.Recommendations,
		Explanation:     result.Explanation,
	})
}

type bulkRequest struct {
	SubmissionIDs []string `json:"submissionIds"`
}

type bulkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	domain.BulkResult
}

func (h *Handler) teacherSubmitBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res := h.reviews.CompleteBulk(r.Context(), userFrom(r.Context()), req.SubmissionIDs)
	writeJSON(w, http.StatusOK, bulkResponse{
		Success:    true,
		Message:    fmt.Sprintf("Processed %d submissions successfully", res.Processed),
		BulkResult: res,
	})
}
