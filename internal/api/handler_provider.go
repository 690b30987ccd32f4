package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/txledger/internal/ledger"
	"github.com/fastprodman/txledger/internal/services/processing"
)

// HandlerProvider wraps a processing.Service and exposes HTTP handlers.
type HandlerProvider struct {
	svc *processing.Service
}

// NewHandler returns a new Handler provider.
func NewHandler(svc *processing.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		// As best-effort, write a minimal error payload if headers not sent
		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseClientIDFromPath reads `{clientId}` from routes like GET /accounts/{clientId}.
func parseClientIDFromPath(r *http.Request) (uint16, error) {
	idStr := chi.URLParam(r, "clientId")
	if idStr == "" {
		return 0, fmt.Errorf("missing clientId")
	}

	id, err := strconv.ParseUint(idStr, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid clientId: %w", err)
	}

	return uint16(id), nil
}

type txRequest struct {
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount,omitempty"`
}

type accountResponse struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

func (req txRequest) toEvent() (ledger.Event, error) {
	kind := ledger.EventKind(strings.ToLower(strings.TrimSpace(req.Type)))
	if !kind.Valid() {
		return ledger.Event{}, fmt.Errorf("invalid type %q", req.Type)
	}

	if !kind.RequiresAmount() {
		return ledger.NewReference(kind, req.Tx, req.Client), nil
	}

	if strings.TrimSpace(req.Amount) == "" {
		return ledger.Event{}, fmt.Errorf("%s requires an amount", kind)
	}

	amount, err := ledger.ParseAmount(req.Amount)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("invalid amount: %w", err)
	}

	ev := ledger.Event{Kind: kind, TxID: req.Tx, ClientID: req.Client, Amount: amount, HasAmount: true}

	return ev, nil
}

// --- Handlers ---

// ApplyTransactionHandler handles POST /transactions.
//
// Business-rule rejections are reported with 409 and the outcome name;
// they are normal results, the engine state simply did not change.
func (h *HandlerProvider) ApplyTransactionHandler(w http.ResponseWriter, r *http.Request) {
	// Limit body size; disallow unknown fields
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	var req txRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ev, err := req.toEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.svc.ProcessEvent(ev)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidEvent) {
			writeError(w, http.StatusBadRequest, "invalid event")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if outcome.Rejected() {
		writeJSON(w, http.StatusConflict, map[string]string{
			"status":  "rejected",
			"outcome": outcome.String(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "applied",
		"outcome": outcome.String(),
	})
}

// ListAccountsHandler handles GET /accounts.
func (h *HandlerProvider) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	snapshots := h.svc.Snapshots()

	resp := make([]accountResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		resp = append(resp, accountResponse{
			Client:    snap.ClientID,
			Available: snap.Available.StringFixed4(),
			Held:      snap.Held.StringFixed4(),
			Total:     snap.Total.StringFixed4(),
			Locked:    snap.Locked,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAccountHandler handles GET /accounts/{clientId}.
func (h *HandlerProvider) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseClientIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clientId in path")
		return
	}

	acc, ok := h.svc.Account(clientID)
	if !ok {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		Client:    clientID,
		Available: acc.Available.StringFixed4(),
		Held:      acc.Held.StringFixed4(),
		Total:     acc.Total().StringFixed4(),
		Locked:    acc.Locked,
	})
}
