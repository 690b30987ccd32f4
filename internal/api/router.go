package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/txledger/internal/services/processing"
)

// NewRouter constructs the router with all ledger API endpoints registered.
func NewRouter(svc *processing.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/transactions", h.ApplyTransactionHandler)
	r.Get("/accounts", h.ListAccountsHandler)
	r.Get("/accounts/{clientId}", h.GetAccountHandler)

	return r
}
