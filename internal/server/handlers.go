package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/splitbasket/splitbasket/internal/calculator"
	"github.com/splitbasket/splitbasket/internal/eventlog"
	"github.com/splitbasket/splitbasket/internal/models"
	"github.com/splitbasket/splitbasket/internal/money"
	"github.com/splitbasket/splitbasket/internal/storage"
)

// inventoryRequest is the JSON shape UI collaborators send for inventory
// writes. The imaging collaborator's suggestions arrive through the same
// fields (name, category, photoRef).
type inventoryRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	ExpireAt int64  `json:"expireAt,omitempty"`
	PhotoRef string `json:"photoRef,omitempty"`
}

func (req inventoryRequest) toModel() models.InventoryItem {
	category := req.Category
	if category == "" {
		category = models.CategoryOther
	}
	return models.InventoryItem{
		ID:       req.ID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Category: category,
		ExpireAt: req.ExpireAt,
		PhotoRef: req.PhotoRef,
	}
}

// inventoryResponse mirrors the request field names so the JSON surface is
// symmetric on reads and writes.
type inventoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
	ExpireAt  int64  `json:"expireAt,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	PhotoRef  string `json:"photoRef,omitempty"`
}

func toInventoryResponse(item models.InventoryItem) inventoryResponse {
	return inventoryResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Category:  item.Category,
		ExpireAt:  item.ExpireAt,
		CreatedAt: item.CreatedAt,
		PhotoRef:  item.PhotoRef,
	}
}

func toInventoryResponses(items []models.InventoryItem) []inventoryResponse {
	out := make([]inventoryResponse, len(items))
	for i, item := range items {
		out[i] = toInventoryResponse(item)
	}
	return out
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryResponses(items))
}

func (s *Server) addInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item := req.toModel()
	if err := s.inventory.Add(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInventoryResponse(item))
}

func (s *Server) updateInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = r.PathValue("id")
	item := req.toModel()
	if err := s.inventory.Update(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryResponse(item))
}

func (s *Server) removeInventory(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) expiringInventory(w http.ResponseWriter, r *http.Request) {
	days := 3
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}
	items, err := s.inventory.ExpiringWithin(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInventoryResponses(items))
}

type shoppingRequest struct {
	Name     string `json:"name"`
	AddedBy  string `json:"addedBy"`
	Quantity int    `json:"quantity"`
}

type shoppingResponse struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	AddedBy           string `json:"addedBy"`
	Quantity          int    `json:"quantity"`
	Purchased         bool   `json:"purchased"`
	CreatedAt         int64  `json:"createdAt"`
	LinkedInventoryID string `json:"linkedInventoryId,omitempty"`
}

func toShoppingResponse(item models.ShoppingItem) shoppingResponse {
	return shoppingResponse{
		ID:                item.ID,
		Name:              item.Name,
		AddedBy:           item.AddedBy,
		Quantity:          item.Quantity,
		Purchased:         item.Purchased,
		CreatedAt:         item.CreatedAt,
		LinkedInventoryID: item.LinkedInventoryID,
	}
}

func toShoppingResponses(items []models.ShoppingItem) []shoppingResponse {
	out := make([]shoppingResponse, len(items))
	for i, item := range items {
		out[i] = toShoppingResponse(item)
	}
	return out
}

func (s *Server) listShopping(w http.ResponseWriter, r *http.Request) {
	items, err := s.shopping.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShoppingResponses(items))
}

func (s *Server) addShopping(w http.ResponseWriter, r *http.Request) {
	var req shoppingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item := models.ShoppingItem{Name: req.Name, AddedBy: req.AddedBy, Quantity: req.Quantity}
	message, err := s.shopping.Add(r.Context(), &item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": toShoppingResponse(item), "message": message})
}

func (s *Server) updateShopping(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	var req struct {
		shoppingRequest
		Purchased bool `json:"purchased"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	item := models.ShoppingItem{
		ID:        id,
		Name:      req.Name,
		AddedBy:   req.AddedBy,
		Quantity:  req.Quantity,
		Purchased: req.Purchased,
	}
	if err := s.shopping.Update(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShoppingResponse(item))
}

func (s *Server) deleteShopping(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	items, err := s.shopping.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, item := range items {
		if item.ID == id {
			if err := s.shopping.Delete(r.Context(), item); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, storage.ErrNotFound)
}

func (s *Server) purchaseShopping(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.shopping.MarkPurchased(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) purchasedShopping(w http.ResponseWriter, r *http.Request) {
	items, err := s.shopping.PurchasedItems(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShoppingResponses(items))
}

// billRequest carries amounts as decimal strings ("389.50"); a leading
// currency glyph is tolerated on input but never stored.
type billRequest struct {
	Name          string   `json:"name"`
	Total         string   `json:"total,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Status        string   `json:"status,omitempty"`
	SplitMethod   string   `json:"splitMethod"`
	Participants  []string `json:"participants"`
	CustomAmounts []string `json:"customAmounts,omitempty"`
}

func (req billRequest) toModel() (models.Bill, error) {
	bill := models.Bill{
		Name:         req.Name,
		Currency:     req.Currency,
		Status:       req.Status,
		SplitMethod:  req.SplitMethod,
		Participants: req.Participants,
	}
	if req.Total != "" {
		total, err := money.Parse(req.Total)
		if err != nil {
			return models.Bill{}, storage.Validationf("invalid total amount %q", req.Total)
		}
		bill.Total = total
	}
	for _, raw := range req.CustomAmounts {
		amount, err := money.Parse(raw)
		if err != nil {
			return models.Bill{}, storage.Validationf("invalid custom amount %q", raw)
		}
		bill.CustomAmounts = append(bill.CustomAmounts, amount)
	}
	return bill, nil
}

// billResponse renders amounts as display strings.
type billResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Total         string   `json:"total"`
	PerPerson     string   `json:"perPerson"`
	Status        string   `json:"status"`
	SplitMethod   string   `json:"splitMethod"`
	Participants  []string `json:"participants"`
	CustomAmounts []string `json:"customAmounts,omitempty"`
	CreatedAt     string   `json:"createdAt"`
}

func toBillResponse(bill models.Bill) billResponse {
	resp := billResponse{
		ID:           bill.ID,
		Name:         bill.Name,
		Total:        bill.DisplayAmount(),
		PerPerson:    calculator.Average(bill.Total, len(bill.Participants)).Display(bill.Currency),
		Status:       bill.Status,
		SplitMethod:  bill.SplitMethod,
		Participants: bill.Participants,
		CreatedAt:    bill.CreatedAt,
	}
	for _, a := range bill.CustomAmounts {
		resp.CustomAmounts = append(resp.CustomAmounts, a.Display(bill.Currency))
	}
	return resp
}

func toBillResponses(bills []models.Bill) []billResponse {
	out := make([]billResponse, len(bills))
	for i, b := range bills {
		out[i] = toBillResponse(b)
	}
	return out
}

func (s *Server) listBills(w http.ResponseWriter, r *http.Request) {
	var bills []models.Bill
	var err error
	switch r.URL.Query().Get("status") {
	case "":
		bills, err = s.bills.List(r.Context())
	case models.BillUnpaid:
		bills, err = s.bills.Unpaid(r.Context())
	case models.BillPaid:
		bills, err = s.bills.Paid(r.Context())
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status filter"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponses(bills))
}

func (s *Server) addBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bill, err := req.toModel()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.bills.Add(r.Context(), &bill); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResponse(bill))
}

func (s *Server) getBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.bills.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill))
}

func (s *Server) updateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bill, err := req.toModel()
	if err != nil {
		writeError(w, err)
		return
	}
	bill.ID = r.PathValue("id")
	if err := s.bills.Update(r.Context(), bill); err != nil {
		writeError(w, err)
		return
	}
	// Re-read so the response carries server-owned fields such as the
	// creation date, which the request body never includes.
	updated, err := s.bills.GetByID(r.Context(), bill.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*updated))
}

func (s *Server) deleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) payBill(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.MarkPaid(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logResponse is one formatted audit line with its raw fields.
type logResponse struct {
	Timestamp   int64  `json:"timestamp"`
	Action      string `json:"action"`
	Description string `json:"description"`
	User        string `json:"user,omitempty"`
	Display     string `json:"display"`
}

func (s *Server) listLogs(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	entries := s.log.All()
	out := make([]logResponse, len(entries))
	for i, e := range entries {
		out[i] = logResponse{
			Timestamp:   e.Timestamp,
			Action:      string(e.Action),
			Description: e.Description,
			User:        e.User,
			Display:     eventlog.DisplayLine(e, now),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) clearLogs(w http.ResponseWriter, r *http.Request) {
	if err := s.log.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
