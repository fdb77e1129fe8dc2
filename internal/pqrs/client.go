// Package pqrs is the client for the PQRS ticketing service
// (petitions/complaints/claims/suggestions). The backend's wire format uses
// Spanish field names; they are kept on the JSON tags and mapped to English
// names on the Go side.
package pqrs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	httpclient "vjudge/internal/cli/http"
	pkgerrors "vjudge/pkg/errors"
)

// Ticket is one PQRS case.
type Ticket struct {
	ID          int64  `json:"id"`
	Type        string `json:"tipo"`
	Description string `json:"descripcion"`
	Category    string `json:"categoria"`
	CategoryID  int64  `json:"categoria_id"`
	Status      string `json:"estado"`
	StatusID    int64  `json:"estado_id"`
	UserID      string `json:"usuario_id"`
	FiledAt     string `json:"fecha"`
}

// Category is a ticket classification.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// State is one of the workflow states a ticket moves through.
type State struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// HistoryEntry is one status transition in a ticket's audit trail.
type HistoryEntry struct {
	Status    string `json:"estado"`
	Comment   string `json:"comentario,omitempty"`
	ChangedAt string `json:"fecha"`
	ChangedBy string `json:"usuario_id,omitempty"`
}

// CreateRequest files a new ticket.
type CreateRequest struct {
	Type        string `json:"tipo"`
	CategoryID  int64  `json:"categoria_id"`
	Description string `json:"descripcion"`
}

// Client talks to the PQRS service.
type Client struct {
	http *httpclient.Client
}

func NewClient(http *httpclient.Client) *Client {
	return &Client{http: http}
}

// Categories returns the available ticket categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/api/categories", pkgerrors.CategoryListFailed, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// States returns the workflow states tickets move through.
func (c *Client) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := c.getJSON(ctx, "/api/states", pkgerrors.StateListFailed, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// Create files a new ticket on behalf of the signed-in user.
func (c *Client) Create(ctx context.Context, req CreateRequest) (Ticket, error) {
	if req.Type == "" || req.Description == "" || req.CategoryID <= 0 {
		return Ticket{}, pkgerrors.Newf(pkgerrors.RequiredFieldEmpty,
			"type, category and description are required")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Ticket{}, pkgerrors.Wrap(err, pkgerrors.InternalError)
	}
	resp, err := c.http.Do(ctx, http.MethodPost, "/api/pqrs", nil, body)
	if err != nil {
		return Ticket{}, pkgerrors.TransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.PQRSCreateFailed.Message())
		return Ticket{}, pkgerrors.Newf(pkgerrors.PQRSCreateFailed, "%s", msg)
	}
	var ticket Ticket
	if err := json.Unmarshal(resp.Body, &ticket); err != nil {
		return Ticket{}, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return ticket, nil
}

// List returns the tickets visible to the caller: their own, or everything
// for admins and moderators. The filtering happens server side off the token.
func (c *Client) List(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.getJSON(ctx, "/api/pqrs", pkgerrors.PQRSNotFound, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Get fetches one ticket by id.
func (c *Client) Get(ctx context.Context, id int64) (Ticket, error) {
	if id <= 0 {
		return Ticket{}, pkgerrors.Newf(pkgerrors.InvalidParams, "ticket id must be positive")
	}
	var ticket Ticket
	if err := c.getJSON(ctx, fmt.Sprintf("/api/pqrs/%d", id), pkgerrors.PQRSNotFound, &ticket); err != nil {
		return Ticket{}, err
	}
	return ticket, nil
}

// UpdateStatus moves a ticket to a new workflow state, with an optional
// comment for the audit trail. Admin/moderator only.
func (c *Client) UpdateStatus(ctx context.Context, id, stateID int64, comment string) error {
	if id <= 0 || stateID <= 0 {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "ticket id and state id must be positive")
	}
	payload := map[string]interface{}{"estado_id": stateID}
	if comment != "" {
		payload["comentario"] = comment
	}
	body, _ := json.Marshal(payload)
	resp, err := c.http.Do(ctx, http.MethodPut, fmt.Sprintf("/api/pqrs/%d/status", id), nil, body)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.PQRSStatusUpdateFailed.Message())
		return pkgerrors.Newf(pkgerrors.PQRSStatusUpdateFailed, "%s", msg)
	}
	return nil
}

// History returns a ticket's status transitions, oldest first.
func (c *Client) History(ctx context.Context, id int64) ([]HistoryEntry, error) {
	if id <= 0 {
		return nil, pkgerrors.Newf(pkgerrors.InvalidParams, "ticket id must be positive")
	}
	var history []HistoryEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/api/pqrs/%d/history", id), pkgerrors.PQRSHistoryFailed, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Stats returns aggregate ticket counts. Admin/moderator only. The shape is
// backend-defined, so it stays a raw document.
func (c *Client) Stats(ctx context.Context) (map[string]json.RawMessage, error) {
	var stats map[string]json.RawMessage
	if err := c.getJSON(ctx, "/api/pqrs/stats", pkgerrors.PQRSStatsFailed, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) getJSON(ctx context.Context, path string, notFound pkgerrors.ErrorCode, out interface{}) error {
	resp, err := c.http.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return pkgerrors.Newf(pkgerrors.FromHTTPStatus(resp.StatusCode, notFound),
			"%s", httpclient.APIMessage(resp.Body, notFound.Message()))
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return nil
}
