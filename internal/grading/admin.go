package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httpclient "vjudge/internal/cli/http"
	pkgerrors "vjudge/pkg/errors"
)

// Back-office problem management. The grading service authorizes these off
// the caller's token; the client additionally gates them by role before
// dispatch.

// CreateProblem adds a problem to the catalog.
func (c *Client) CreateProblem(ctx context.Context, problem Problem) (Problem, error) {
	if problem.Title == "" {
		return Problem{}, pkgerrors.Newf(pkgerrors.RequiredFieldEmpty, "problem title is required")
	}
	body, err := json.Marshal(problem)
	if err != nil {
		return Problem{}, pkgerrors.Wrap(err, pkgerrors.InternalError)
	}
	resp, err := c.http.Do(ctx, http.MethodPost, "/api/problems", nil, body)
	if err != nil {
		return Problem{}, pkgerrors.TransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.ProblemSaveFailed.Message())
		return Problem{}, pkgerrors.Newf(pkgerrors.ProblemSaveFailed, "%s", msg)
	}
	var created Problem
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return Problem{}, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return created, nil
}

// UpdateProblem overwrites the given fields of an existing problem.
func (c *Client) UpdateProblem(ctx context.Context, id int64, fields map[string]interface{}) error {
	if id <= 0 {
		return errInvalidProblemID
	}
	if len(fields) == 0 {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "nothing to update")
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.InternalError)
	}
	resp, err := c.http.Do(ctx, http.MethodPut, fmt.Sprintf("/api/problems/%d", id), nil, body)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.Newf(pkgerrors.ProblemNotFound, "problem %d not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.ProblemSaveFailed.Message())
		return pkgerrors.Newf(pkgerrors.ProblemSaveFailed, "%s", msg)
	}
	return nil
}

// DeleteSubmission removes a submission record. The identifier is opaque,
// same as everywhere else on the submission surface.
func (c *Client) DeleteSubmission(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.InvalidSubmissionID)
	}
	resp, err := c.http.Do(ctx, http.MethodDelete, "/api/submissions/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.Newf(pkgerrors.SubmissionNotFound, "submission %s not found", id)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg := httpclient.APIMessage(resp.Body, "failed to delete submission")
		return pkgerrors.Newf(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.SubmissionNotFound), "%s", msg)
	}
	return nil
}

// DeleteProblem removes a problem from the catalog.
func (c *Client) DeleteProblem(ctx context.Context, id int64) error {
	if id <= 0 {
		return errInvalidProblemID
	}
	resp, err := c.http.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/problems/%d", id), nil, nil)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.Newf(pkgerrors.ProblemNotFound, "problem %d not found", id)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.ProblemDeleteFailed.Message())
		return pkgerrors.Newf(pkgerrors.ProblemDeleteFailed, "%s", msg)
	}
	return nil
}
