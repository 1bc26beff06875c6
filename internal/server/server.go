// Package server exposes the repositories over a small JSON HTTP API.
// It is the surface UI collaborators call; nothing here touches storage
// directly.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/splitbasket/splitbasket/internal/eventlog"
	"github.com/splitbasket/splitbasket/internal/repository"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// Server holds the repository facades the handlers delegate to.
type Server struct {
	inventory *repository.InventoryRepository
	shopping  *repository.ShoppingRepository
	bills     *repository.BillRepository
	log       *eventlog.Log
}

// New creates a Server over the given repositories.
func New(inventory *repository.InventoryRepository, shopping *repository.ShoppingRepository, bills *repository.BillRepository, log *eventlog.Log) *Server {
	return &Server{inventory: inventory, shopping: shopping, bills: bills, log: log}
}

// Routes registers every handler on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/inventory", s.listInventory)
	mux.HandleFunc("POST /api/inventory", s.addInventory)
	mux.HandleFunc("PUT /api/inventory/{id}", s.updateInventory)
	mux.HandleFunc("DELETE /api/inventory/{id}", s.removeInventory)
	mux.HandleFunc("GET /api/inventory/expiring", s.expiringInventory)

	mux.HandleFunc("GET /api/shopping", s.listShopping)
	mux.HandleFunc("POST /api/shopping", s.addShopping)
	mux.HandleFunc("PUT /api/shopping/{id}", s.updateShopping)
	mux.HandleFunc("DELETE /api/shopping/{id}", s.deleteShopping)
	mux.HandleFunc("POST /api/shopping/purchase", s.purchaseShopping)
	mux.HandleFunc("GET /api/shopping/purchased", s.purchasedShopping)

	mux.HandleFunc("GET /api/bills", s.listBills)
	mux.HandleFunc("POST /api/bills", s.addBill)
	mux.HandleFunc("GET /api/bills/{id}", s.getBill)
	mux.HandleFunc("PUT /api/bills/{id}", s.updateBill)
	mux.HandleFunc("DELETE /api/bills/{id}", s.deleteBill)
	mux.HandleFunc("POST /api/bills/{id}/pay", s.payBill)

	mux.HandleFunc("GET /api/logs", s.listLogs)
	mux.HandleFunc("DELETE /api/logs", s.clearLogs)

	return mux
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Every failure body
// carries a short human-readable message suitable for direct display.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case storage.IsValidation(err):
		status = http.StatusBadRequest
	case storage.IsDuplicate(err):
		status = http.StatusConflict
	case storage.IsNotFound(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}
