package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-risk-service/internal/app"
	"quiz-risk-service/internal/domain"
	"quiz-risk-service/internal/infra/memory"
	"quiz-risk-service/internal/report"
)

type cannedGenerator struct {
	text string
}

func (g cannedGenerator) Generate(context.Context, string) (string, error) {
	return g.text, nil
}

type testServer struct {
	*httptest.Server
	feed *app.ReviewFeed
}

func newTestServer(t *testing.T, gen report.Generator) *testServer {
	t.Helper()
	quizStore := memory.NewQuizStore(nil)
	submissions := memory.NewSubmissionStore()
	feed := app.NewReviewFeed()

	submitSvc := app.NewSubmissionService(app.SubmissionDeps{
		Submissions: submissions,
		Quizzes:     memory.NewQuizRepository(quizStore, time.Minute),
		Attempts:    memory.NewAttemptCounter(),
		Feed:        feed,
	})
	reviewSvc := app.NewReviewService(submissions, report.NewRecommender(gen, nil), feed, nil)
	quizSvc := app.NewQuizService(gen, quizStore, nil)

	router := NewRouter(NewHandler(submitSvc, reviewSvc, quizSvc, nil), NewWSHandler(feed, nil), nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, feed: feed}
}

func student(req *http.Request) {
	req.Header.Set(HeaderUserID, "stu-1")
	req.Header.Set(HeaderUserName, "Sam")
	req.Header.Set(HeaderUserRole, "student")
}

func teacher(req *http.Request) {
	req.Header.Set(HeaderUserID, "tch-1")
	req.Header.Set(HeaderUserName, "Ms. Rivera")
	req.Header.Set(HeaderUserRole, domain.RoleTeacher)
}

func (s *testServer) do(t *testing.T, method, path string, body any, as func(*http.Request)) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	if as != nil {
		as(req)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func twoQuestionSubmission() map[string]any {
	return map[string]any{
		"questions": []map[string]any{
			{"id": 1, "question": "2+2?", "skillType": "Cognitive", "options": []string{"3", "4"}, "correctAnswer": "4", "timeLimit": 30},
			{"id": 2, "question": "A friend is sad", "skillType": "Emotional", "options": []string{"comfort", "ignore"}, "correctAnswer": "comfort", "timeLimit": 30},
		},
		"answers": []map[string]any{
			{"questionId": 1, "answer": "4", "timeSpent": 10},
			{"questionId": 2, "answer": "comfort", "timeSpent": 12},
		},
	}
}

func submit(t *testing.T, s *testServer) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/quiz/submit", twoQuestionSubmission(), student)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	id, _ := body["submissionId"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	resp, err := http.Get(s.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmitRequiresIdentity(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/quiz/submit", twoQuestionSubmission(), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestSubmitAndHistory(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.do(t, http.MethodPost, "/quiz/submit", twoQuestionSubmission(), student)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, 100.0, body["score"])
	assert.Equal(t, "pending_review", body["status"])
	assert.Equal(t, "Quiz submitted for teacher review", body["message"])

	resp, body = s.do(t, http.MethodGet, "/quiz/history", nil, student)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results, _ := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "stu-1", first["userId"])
	assert.NotNil(t, first["mlPrediction"])
}

func TestSubmitRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.do(t, http.MethodPost, "/quiz/submit", map[string]any{"answers": []any{}, "questions": []any{}}, student)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, s.URL+"/quiz/submit", bytes.NewBufferString("{not json"))
	student(req)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/quiz/submit", map[string]any{"quizId": "missing", "answers": []map[string]any{{"questionId": 1, "answer": "a"}}}, student)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTeacherRoutesForbidStudents(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/quiz/all-submissions", "/quiz/submissions/x"} {
		resp, _ := s.do(t, http.MethodGet, path, nil, student)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
	resp, _ := s.do(t, http.MethodPost, "/quiz/teacher-submit/x", nil, student)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReviewWorkflow(t *testing.T) {
	s := newTestServer(t, nil)
	id := submit(t, s)

	resp, body := s.do(t, http.MethodGet, "/quiz/all-submissions", nil, teacher)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["submissions"], 1)

	resp, _ = s.do(t, http.MethodPost, "/quiz/teacher-comment", map[string]any{"submissionId": id, "comments": "Nice work"}, teacher)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/quiz/submissions/"+id, nil, teacher)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sub := body["submission"].(map[string]any)
	assert.Equal(t, "reviewed", sub["status"])
	assert.Equal(t, "Nice work", sub["teacherComments"])
	assert.Equal(t, "Ms. Rivera", sub["reviewedBy"])

	resp, body = s.do(t, http.MethodPost, "/quiz/teacher-submit/"+id, nil, teacher)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"Practice regularly", "Focus on weaker areas"}, body["recommendations"])

	_, body = s.do(t, http.MethodGet, "/quiz/submissions/"+id, nil, teacher)
	sub = body["submission"].(map[string]any)
	assert.Equal(t, "completed", sub["status"])
	assert.Equal(t, "Ms. Rivera", sub["completedBy"])
}

func TestCommentUnknownSubmission(t *testing.T) {
	s := newTestServer(t, nil)
	resp, body := s.do(t, http.MethodPost, "/quiz/teacher-comment", map[string]any{"submissionId": "nope", "comments": "x"}, teacher)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "submission not found", body["error"])
}

func TestBulkCompletion(t *testing.T) {
	s := newTestServer(t, cannedGenerator{text: `{"recommendations":["Try breathing exercises"],"explanation":"Calm focus helps."}`})
	id := submit(t, s)

	resp, body := s.do(t, http.MethodPost, "/quiz/teacher-submit-bulk", map[string]any{"submissionIds": []string{id, "missing"}}, teacher)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["processed"])
	assert.Equal(t, 1.0, body["failed"])
	assert.Equal(t, "Processed 1 submissions successfully", body["message"])

	_, body = s.do(t, http.MethodGet, "/quiz/submissions/"+id, nil, teacher)
	sub := body["submission"].(map[string]any)
	assert.Equal(t, []any{"Try breathing exercises"}, sub["recommendations"])
}

func TestGenerateThenSubmitByQuizID(t *testing.T) {
	s := newTestServer(t, cannedGenerator{text: `Here you go: [{"question":"2+2?","options":["3","4"],"correctAnswer":"4"}]`})

	resp, body := s.do(t, http.MethodPost, "/quiz/generate", map[string]any{"prompt": "make a quiz", "config": map[string]any{"age": 9}}, student)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	quizID := body["quizId"].(string)
	questions := body["questions"].([]any)
	require.Len(t, questions, 1)
	assert.Equal(t, "Cognitive", questions[0].(map[string]any)["skillType"])

	resp, body = s.do(t, http.MethodPost, "/quiz/submit", map[string]any{
		"quizId":  quizID,
		"answers": []map[string]any{{"questionId": 1, "answer": "4", "timeSpent": 8}},
	}, student)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, 100.0, body["score"])
}

func TestGenerateWithoutGenerator(t *testing.T) {
	s := newTestServer(t, nil)
	resp, _ := s.do(t, http.MethodPost, "/quiz/generate", map[string]any{"prompt": "make a quiz"}, student)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
