package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-erp/gate"
	"github.com/diewo77/go-erp/httpx"
	"github.com/diewo77/go-erp/internal/export"
	"github.com/diewo77/go-erp/internal/models"
	"github.com/diewo77/go-erp/internal/services"
)

const (
	quoteResource = "quote"
	defaultLimit  = 50
	maxLimit      = 200
)

// Authorizer resolves the acting user and checks resource policies.
// *policy.AuthGate implements it.
type Authorizer interface {
	Actor(ctx context.Context) (services.Actor, error)
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
}

// QuoteHandler exposes the quote services as JSON endpoints. Coarse
// permissions are checked by middleware; ownership and status rules are left
// to the services.
type QuoteHandler struct {
	svc  *services.QuoteService
	gate Authorizer
	log  *slog.Logger
}

func NewQuoteHandler(svc *services.QuoteService, gate Authorizer, log *slog.Logger) *QuoteHandler {
	if log == nil {
		log = slog.Default()
	}
	return &QuoteHandler{svc: svc, gate: gate, log: log}
}

func (h *QuoteHandler) actor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor, err := h.gate.Actor(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return services.Actor{}, false
	}
	return actor, true
}

// filter reads list filters from the query string. Users who cannot approve
// only ever see their own quotes.
func (h *QuoteHandler) filter(r *http.Request, actor services.Actor) services.QuoteFilter {
	q := r.URL.Query()
	f := services.QuoteFilter{
		Status:          models.QuoteStatus(q.Get("status")),
		IncludeArchived: q.Get("include_archived") == "true",
		Limit:           defaultLimit,
	}
	if n, err := strconv.ParseUint(q.Get("customer_id"), 10, 64); err == nil {
		f.CustomerID = uint(n)
	}
	if n, err := strconv.ParseUint(q.Get("sales_rep_id"), 10, 64); err == nil {
		f.SalesRepID = uint(n)
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= maxLimit {
		f.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		f.Offset = (n - 1) * f.Limit
	}
	if !actor.CanApprove() {
		f.SalesRepID = actor.UserID
	}
	return f
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	f := h.filter(r, actor)
	quotes, err := h.svc.ListQuotes(r.Context(), f)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": quotes, "limit": f.Limit, "offset": f.Offset})
}

// Export streams the filtered list as an XLSX workbook, without paging.
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	f := h.filter(r, actor)
	f.Limit, f.Offset = 0, 0
	quotes, err := h.svc.ListQuotes(r.Context(), f)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteQuotes(&buf, quotes); err != nil {
		writeError(w, h.log, fmt.Errorf("export quotes: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="quotes_%s.xlsx"`, time.Now().Format("20060102_150405")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.svc.GetQuote(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionView, quoteResource, q); err != nil {
		httpx.JSONErrorMessage(w, http.StatusForbidden, "forbidden", "not allowed to view quote "+q.QuoteNumber, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *QuoteHandler) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	audits, err := h.svc.QuoteAudit(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, audits)
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in services.CreateQuoteInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}
	q, err := h.svc.CreateQuote(r.Context(), in, actor)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.UpdateQuoteInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}
	h.respond(w, http.StatusOK)(h.svc.UpdateQuote(r.Context(), id, in, actor))
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteQuote(r.Context(), id, actor); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type outcomeRequest struct {
	Outcome    models.QuoteStatus `json:"outcome"`
	LossReason *models.LossReason `json:"loss_reason_category"`
	Notes      string             `json:"notes"`
}

func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error) {
		var req notesRequest
		if !decodeBody(w, r, &req) {
			return nil, nil
		}
		return h.svc.SubmitQuote(ctx, id, actor, req.Notes)
	})
}

func (h *QuoteHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error) {
		var req notesRequest
		if !decodeBody(w, r, &req) {
			return nil, nil
		}
		return h.svc.ApproveQuote(ctx, id, actor, req.Notes)
	})
}

// Reject answers 502 when the rejection committed but the owner could not be
// notified, so the client knows the state changed anyway.
func (h *QuoteHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error) {
		var req rejectRequest
		if !decodeBody(w, r, &req) {
			return nil, nil
		}
		q, err := h.svc.RejectQuote(ctx, id, actor, req.Reason)
		if q != nil && err != nil {
			h.log.Error("rejection notification failed", "quote_id", q.ID, "err", err)
			httpx.JSONErrorMessage(w, http.StatusBadGateway, "notification_failed",
				"quote "+q.QuoteNumber+" was rejected but its owner could not be notified", q)
			return nil, nil
		}
		return q, err
	})
}

func (h *QuoteHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error) {
		return h.svc.WithdrawQuote(ctx, id, actor)
	})
}

func (h *QuoteHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error) {
		var req outcomeRequest
		if !decodeBody(w, r, &req) {
			return nil, nil
		}
		return h.svc.MarkQuoteOutcome(ctx, id, req.Outcome, actor, req.LossReason, req.Notes)
	})
}

func (h *QuoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error) {
		return h.svc.ArchiveQuote(ctx, id, actor)
	})
}

// transition resolves actor and id, then runs fn. fn returns (nil, nil) when it
// already wrote the response.
func (h *QuoteHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uint, actor services.Actor) (*models.Quote, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := fn(r.Context(), id, actor)
	if q == nil && err == nil {
		return
	}
	h.respond(w, http.StatusOK)(q, err)
}

func (h *QuoteHandler) respond(w http.ResponseWriter, status int) func(*models.Quote, error) {
	return func(q *models.Quote, err error) {
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		httpx.JSON(w, status, q)
	}
}
