package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roslynlu/TandaPay/internal/middleware"
	"github.com/roslynlu/TandaPay/internal/models"
)

// Request/response shapes. Monetary amounts are int64 base units throughout.

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type createGroupRequest struct {
	Secretary string   `json:"secretary"`
	Members   []string `json:"members"`
	Premium   int64    `json:"premium"`
	MaxClaim  int64    `json:"max_claim"`
}

type paymentRequest struct {
	Amount int64 `json:"amount"`
}

type fileClaimRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type reviewClaimRequest struct {
	Approve bool `json:"approve"`
}

type groupResponse struct {
	ID              int      `json:"id"`
	Secretary       string   `json:"secretary"`
	Members         []string `json:"members"`
	Premium         int64    `json:"premium"`
	MaxClaim        int64    `json:"max_claim"`
	Period          string   `json:"period"`
	PreStartedAt    int64    `json:"pre_started_at,omitempty"`
	ActiveStartedAt int64    `json:"active_started_at,omitempty"`
	PaidCount       int      `json:"paid_count"`
	PooledFunds     int64    `json:"pooled_funds"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       int64    `json:"created_at"`
}

type claimResponse struct {
	ID          int    `json:"id"`
	Claimant    string `json:"claimant"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Status      string `json:"status"`
	FiledAt     int64  `json:"filed_at"`
}

type eventResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Actor     string `json:"actor"`
	Amount    int64  `json:"amount,omitempty"`
	ClaimID   *int   `json:"claim_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:              g.ID,
		Secretary:       g.Secretary,
		Members:         g.Members,
		Premium:         g.Premium,
		MaxClaim:        g.MaxClaim,
		Period:          string(g.Period),
		PreStartedAt:    g.PreStartedAt,
		ActiveStartedAt: g.ActiveStartedAt,
		PaidCount:       len(g.Paid),
		PooledFunds:     g.PooledFunds,
		IsActive:        g.Period == models.PeriodActive,
		CreatedAt:       g.CreatedAt,
	}
}

func toClaimResponse(c *models.Claim) claimResponse {
	return claimResponse{
		ID:          c.ID,
		Claimant:    c.Claimant,
		Amount:      c.Amount,
		Description: c.Description,
		Status:      string(c.Status),
		FiledAt:     c.FiledAt,
	}
}

func toEventResponse(e *models.Event) eventResponse {
	resp := eventResponse{
		ID:        e.ID,
		Type:      string(e.Type),
		Actor:     e.Actor,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
	}
	if e.ClaimID >= 0 {
		claimID := e.ClaimID
		resp.ClaimID = &claimID
	}
	return resp
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// groupID parses the {groupID} route parameter.
func groupID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "groupID"))
	if err != nil {
		return 0, fmt.Errorf("invalid group id %q", chi.URLParam(r, "groupID"))
	}
	return id, nil
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: toUserResponse(user), Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(user), Token: token})
}

func (h *Handler) administrator(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"administrator": h.pool.Administrator()})
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	caller := middleware.GetUserID(r.Context())
	group, err := h.pool.CreateGroup(r.Context(), caller, req.Secretary, req.Members, req.Premium, req.MaxClaim)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.pool.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group, err := h.pool.GetGroup(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handler) isMember(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	isMember, err := h.pool.IsMember(r.Context(), id, chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_member": isMember})
}

func (h *Handler) startPrePeriod(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.pool.StartPrePeriod)
}

func (h *Handler) startActivePeriod(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.pool.StartActivePeriod)
}

func (h *Handler) endActivePeriod(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.pool.EndActivePeriod)
}

// lifecycle handles the three secretary period transitions, which share a
// shape: no body, caller from the session, updated group back.
func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, groupID int, caller string) (*models.Group, error)) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group, err := op(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group, err := h.pool.RecordPayment(r.Context(), id, middleware.GetUserID(r.Context()), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (h *Handler) fileClaim(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req fileClaimRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	claim, err := h.pool.FileClaim(r.Context(), id, middleware.GetUserID(r.Context()), req.Amount, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClaimResponse(claim))
}

func (h *Handler) listClaims(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	group, err := h.pool.GetGroup(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]claimResponse, len(group.Claims))
	for i := range group.Claims {
		resp[i] = toClaimResponse(&group.Claims[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) reviewClaim(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	claimID, err := strconv.Atoi(chi.URLParam(r, "claimID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid claim id %q", chi.URLParam(r, "claimID"))})
		return
	}
	var req reviewClaimRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	claim, err := h.pool.ReviewClaim(r.Context(), id, middleware.GetUserID(r.Context()), claimID, req.Approve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClaimResponse(claim))
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	events, err := h.pool.ListEvents(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := make([]eventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}
