package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	httpclient "vjudge/internal/cli/http"
	pkgerrors "vjudge/pkg/errors"
	"vjudge/pkg/utils/logger"

	"go.uber.org/zap"
)

var (
	errInvalidProblemID  = pkgerrors.Newf(pkgerrors.InvalidParams, "problem_id must be a positive integer")
	errInvalidLanguageID = pkgerrors.Newf(pkgerrors.LanguageNotSupported, "language_id must reference a known language")
	errEmptySource       = pkgerrors.Newf(pkgerrors.RequiredFieldEmpty, "source code must not be empty")
)

// defaultLanguages is the built-in catalog used when the language endpoint
// cannot be reached. Matches the IDs the grading service assigns.
var defaultLanguages = []Language{
	{ID: 1, Name: "Python 3.8"},
	{ID: 2, Name: "C++ (GCC 9.2.0)"},
	{ID: 3, Name: "Java (OpenJDK 13.0.1)"},
	{ID: 4, Name: "JavaScript (Node.js 12.14.0)"},
	{ID: 5, Name: "C (GCC 9.2.0)"},
	{ID: 6, Name: "C# (Mono 6.6.0.161)"},
	{ID: 7, Name: "Go (1.13.5)"},
	{ID: 8, Name: "Ruby (2.7.0)"},
	{ID: 9, Name: "Rust (1.40.0)"},
}

// DefaultLanguages returns a copy of the built-in language catalog.
func DefaultLanguages() []Language {
	out := make([]Language, len(defaultLanguages))
	copy(out, defaultLanguages)
	return out
}

// Client talks to the grading service. All responses cross the normalization
// boundary before being returned.
type Client struct {
	http *httpclient.Client
}

func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// ListProblems fetches the problem catalog. An unauthorized response yields
// an empty catalog rather than an error so anonymous browsing still works.
func (c *Client) ListProblems(ctx context.Context) ([]Problem, error) {
	resp, err := c.http.Do(ctx, http.MethodGet, "/api/problems", nil, nil)
	if err != nil {
		return nil, pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return []Problem{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Newf(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.ProblemListFailed),
			"%s", httpclient.APIMessage(resp.Body, "failed to list problems"))
	}
	var problems []Problem
	if err := json.Unmarshal(resp.Body, &problems); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return problems, nil
}

func (c *Client) GetProblem(ctx context.Context, id int64) (Problem, error) {
	if id <= 0 {
		return Problem{}, errInvalidProblemID
	}
	resp, err := c.http.Do(ctx, http.MethodGet, fmt.Sprintf("/api/problems/%d", id), nil, nil)
	if err != nil {
		return Problem{}, pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Problem{}, pkgerrors.Newf(pkgerrors.ProblemNotFound, "problem %d not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return Problem{}, pkgerrors.New(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.ProblemNotFound))
	}
	var problem Problem
	if err := json.Unmarshal(resp.Body, &problem); err != nil {
		return Problem{}, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return problem, nil
}

// ListLanguages fetches the language catalog, falling back to the built-in
// list when the endpoint is unavailable.
func (c *Client) ListLanguages(ctx context.Context) ([]Language, error) {
	resp, err := c.http.Do(ctx, http.MethodGet, "/api/languages", nil, nil)
	if err != nil || resp.StatusCode != http.StatusOK {
		logger.Warn(ctx, "language catalog unavailable, using defaults", zap.Error(err))
		return DefaultLanguages(), nil
	}
	var languages []Language
	if err := json.Unmarshal(resp.Body, &languages); err != nil {
		logger.Warn(ctx, "language catalog malformed, using defaults", zap.Error(err))
		return DefaultLanguages(), nil
	}
	return languages, nil
}

// CreateSubmission submits source code for grading and returns the assigned
// identifier.
func (c *Client) CreateSubmission(ctx context.Context, req SubmissionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	// The grading service expects the legacy aliases on create: the language
	// name travels as language_submission and the source as sourceCode.
	payload := map[string]interface{}{
		"problem_id":          req.ProblemID,
		"language_id":         req.LanguageID,
		"language_submission": req.LanguageName,
		"sourceCode":          req.SourceCode,
		"user_id":             req.UserID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.InternalError)
	}

	resp, err := c.http.Do(ctx, http.MethodPost, "/api/submissions", nil, body)
	if err != nil {
		return "", pkgerrors.TransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := httpclient.APIMessage(resp.Body, http.StatusText(resp.StatusCode))
		return "", pkgerrors.Newf(pkgerrors.SubmissionRejected, "%s", msg)
	}

	var created struct {
		ID       flexID `json:"id"`
		LegacyID flexID `json:"id_submission"`
	}
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	id := string(firstID(created.ID, created.LegacyID))
	if id == "" {
		return "", pkgerrors.Newf(pkgerrors.MalformedResponse, "create response carried no submission id")
	}

	logger.Info(ctx, "submission created",
		zap.String("submission_id", id),
		zap.Int64("problem_id", req.ProblemID),
		zap.String("language", req.LanguageName),
	)
	return id, nil
}

// GetSubmission fetches one submission by its opaque identifier and returns
// the normalized record. A 404 means the identifier is unknown.
func (c *Client) GetSubmission(ctx context.Context, id string) (Submission, error) {
	if strings.TrimSpace(id) == "" {
		return Submission{}, pkgerrors.New(pkgerrors.InvalidSubmissionID)
	}
	resp, err := c.http.Do(ctx, http.MethodGet, "/api/submissions/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return Submission{}, pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Submission{}, pkgerrors.Newf(pkgerrors.SubmissionNotFound, "submission %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return Submission{}, pkgerrors.Newf(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.SubmissionNotFound),
			"%s", httpclient.APIMessage(resp.Body, "failed to fetch submission"))
	}

	var wire wireSubmission
	if err := json.Unmarshal(resp.Body, &wire); err != nil {
		return Submission{}, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return normalizeSubmission(wire), nil
}

// ListSubmissions lists submissions with optional filters. A 404 from the
// backend means "nothing matched" and yields an empty slice.
func (c *Client) ListSubmissions(ctx context.Context, filters ListFilters) ([]Submission, error) {
	query := url.Values{}
	if filters.UserID != "" {
		query.Set("user_id", filters.UserID)
	}
	if filters.ProblemID > 0 {
		query.Set("problem_id", strconv.FormatInt(filters.ProblemID, 10))
	}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Skip > 0 {
		query.Set("skip", strconv.Itoa(filters.Skip))
	}
	path := "/api/submissions"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.http.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return []Submission{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Newf(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.SubmissionListFailed),
			"%s", httpclient.APIMessage(resp.Body, "failed to list submissions"))
	}

	var list wireSubmissionList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return normalizeSubmissions(list.Submissions), nil
}

// ListSubmissionsByUser lists a user's submission history.
func (c *Client) ListSubmissionsByUser(ctx context.Context, userID string, limit int) ([]Submission, error) {
	if userID == "" {
		return nil, pkgerrors.Newf(pkgerrors.InvalidParams, "user id is required")
	}
	return c.ListSubmissions(ctx, ListFilters{UserID: userID, Limit: limit})
}
