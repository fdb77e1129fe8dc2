package grading_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpclient "vjudge/internal/cli/http"
	"vjudge/internal/grading"
	pkgerrors "vjudge/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*grading.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return grading.NewClient(httpclient.New(server.URL, 2*time.Second, nil)), server
}

func TestCreateSubmissionPayloadShape(t *testing.T) {
	var captured map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/submissions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("payload not json: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id_submission": 101}`))
	}))

	id, err := client.CreateSubmission(context.Background(), grading.SubmissionRequest{
		ProblemID:    3,
		LanguageID:   1,
		LanguageName: "Python 3.8",
		SourceCode:   "print(42)",
		UserID:       "temp_x",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id != "101" {
		t.Fatalf("expected id from legacy alias, got %q", id)
	}

	for _, key := range []string{"problem_id", "language_id", "language_submission", "sourceCode", "user_id"} {
		if _, ok := captured[key]; !ok {
			t.Errorf("payload missing key %q", key)
		}
	}
	if captured["language_submission"] != "Python 3.8" {
		t.Errorf("language name must travel as language_submission, got %v", captured["language_submission"])
	}
}

func TestCreateSubmissionRejectionCarriesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "source exceeds size limit"}`))
	}))

	_, err := client.CreateSubmission(context.Background(), grading.SubmissionRequest{
		ProblemID: 1, LanguageID: 1, SourceCode: "x", UserID: "u",
	})
	if pkgerrors.GetCode(err) != pkgerrors.SubmissionRejected {
		t.Fatalf("expected SubmissionRejected, got %v", err)
	}
	if got := pkgerrors.GetError(err).Error(); got != "source exceeds size limit" {
		t.Fatalf("expected backend message, got %q", got)
	}
}

func TestCreateSubmissionValidatesLocally(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.CreateSubmission(context.Background(), grading.SubmissionRequest{ProblemID: 0})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if called {
		t.Fatalf("invalid request must not reach the backend")
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.GetSubmission(context.Background(), "999")
	if pkgerrors.GetCode(err) != pkgerrors.SubmissionNotFound {
		t.Fatalf("expected SubmissionNotFound, got %v", err)
	}
}

func TestGetSubmissionEmptyID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected for empty id")
	}))

	_, err := client.GetSubmission(context.Background(), "  ")
	if pkgerrors.GetCode(err) != pkgerrors.InvalidSubmissionID {
		t.Fatalf("expected InvalidSubmissionID, got %v", err)
	}
}

func TestGetSubmissionNormalizes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id_submission": "s1",
			"status_submission": "Accepted",
			"execution_time": 0.12,
			"memory_used": 2048,
			"test_cases": [{"input_data": "1", "expected_output": "1", "output": "1", "status": "Accepted"}]
		}`))
	}))

	sub, err := client.GetSubmission(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if sub.ID != "s1" || sub.Status != "Accepted" {
		t.Fatalf("aliases not normalized: %+v", sub)
	}
	if sub.ExecutionTime == nil || *sub.ExecutionTime != 0.12 {
		t.Fatalf("expected execution time 0.12, got %v", sub.ExecutionTime)
	}
	if sub.MemoryUsed == nil || *sub.MemoryUsed != 2048 {
		t.Fatalf("expected memory 2048, got %v", sub.MemoryUsed)
	}
	if len(sub.TestCases) != 1 || !sub.TestCases[0].Passed {
		t.Fatalf("test case not normalized: %+v", sub.TestCases)
	}
}

func TestListSubmissionsFilters(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("user_id") != "u7" || q.Get("problem_id") != "3" || q.Get("limit") != "10" || q.Get("skip") != "20" {
			t.Errorf("filters not encoded: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"submissions": [{"id": "1", "status": "Accepted"}], "total_pages": 2}`))
	}))

	subs, err := client.ListSubmissions(context.Background(), grading.ListFilters{
		UserID: "u7", ProblemID: 3, Limit: 10, Skip: 20,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != "1" {
		t.Fatalf("envelope list not decoded: %+v", subs)
	}
}

func TestListSubmissionsNotFoundMeansEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	subs, err := client.ListSubmissions(context.Background(), grading.ListFilters{UserID: "nobody"})
	if err != nil {
		t.Fatalf("expected empty history, got error: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected empty slice, got %d entries", len(subs))
	}
}

func TestListProblemsUnauthorizedMeansEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	problems, err := client.ListProblems(context.Background())
	if err != nil {
		t.Fatalf("expected empty catalog, got error: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected empty slice, got %d", len(problems))
	}
}

func TestListLanguagesFallsBackToDefaults(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	languages, err := client.ListLanguages(context.Background())
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}
	if len(languages) != len(grading.DefaultLanguages()) {
		t.Fatalf("expected default catalog, got %d entries", len(languages))
	}
	if languages[0].Name != "Python 3.8" {
		t.Fatalf("unexpected first default language: %q", languages[0].Name)
	}
}

func TestDeleteSubmission(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteSubmission(context.Background(), "s42"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/submissions/s42" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestDeleteSubmissionNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	err := client.DeleteSubmission(context.Background(), "ghost")
	if pkgerrors.GetCode(err) != pkgerrors.SubmissionNotFound {
		t.Fatalf("expected SubmissionNotFound, got %v", err)
	}
}

func TestDeleteSubmissionEmptyID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected for empty id")
	}))

	err := client.DeleteSubmission(context.Background(), " ")
	if pkgerrors.GetCode(err) != pkgerrors.InvalidSubmissionID {
		t.Fatalf("expected InvalidSubmissionID, got %v", err)
	}
}

func TestDeleteProblemNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		http.NotFound(w, r)
	}))

	err := client.DeleteProblem(context.Background(), 404)
	if pkgerrors.GetCode(err) != pkgerrors.ProblemNotFound {
		t.Fatalf("expected ProblemNotFound, got %v", err)
	}
}
