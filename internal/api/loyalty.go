package loyalty

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	interf "github.com/electrohub/loyalty/internal/interfaces"
	models "github.com/electrohub/loyalty/internal/models"
	services "github.com/electrohub/loyalty/internal/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LoyaltyHandler struct {
	router  *mux.Router
	service *services.LoyaltyService
	admin   interf.SettingsAdmin
	logger  *zap.Logger
}

type EarnRequest struct {
	UserID    string          `json:"userId"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	AsOf      *time.Time      `json:"asOf,omitempty"`
}

type RedeemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
}

type AdjustRequest struct {
	UserID  string                 `json:"userId"`
	Type    models.TransactionType `json:"type"`
	Amount  int64                  `json:"amount"`
	OrderID string                 `json:"orderId"`
}

type ReverseRequest struct {
	UserID  string `json:"userId"`
	OrderID string `json:"orderId"`
}

type ApplyRequest struct {
	OrderID string              `json:"orderId"`
	Order   models.OrderContext `json:"order"`
}

type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}

type StackingResponse struct {
	ProductID string `json:"productId"`
	CanStack  bool   `json:"canStack"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewHandler(service *services.LoyaltyService, admin interf.SettingsAdmin, logger *zap.Logger) *LoyaltyHandler {
	router := mux.NewRouter()
	handler := &LoyaltyHandler{router, service, admin, logger}
	router.Use(MiddlewareLog(logger))

	// настройки
	router.HandleFunc("/settings/system", handler.SaveSystemSettingsHandler).Methods(http.MethodPut)
	router.HandleFunc("/settings/products", handler.ListProductSettingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/settings/products/{productId}", handler.SaveProductSettingsHandler).Methods(http.MethodPut)
	router.HandleFunc("/settings/products/{productId}/effective", handler.ResolveSettingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/settings/products/{productId}/stacking", handler.CanStackHandler).Methods(http.MethodGet)

	// монеты
	router.HandleFunc("/coins/earn", handler.EarnHandler).Methods(http.MethodPost)
	router.HandleFunc("/coins/redeem", handler.RedeemHandler).Methods(http.MethodPost)
	router.HandleFunc("/coins/adjust", handler.AdjustHandler).Methods(http.MethodPost)
	router.HandleFunc("/coins/reverse", handler.ReverseHandler).Methods(http.MethodPost)

	// кошельки
	router.HandleFunc("/wallets/{userId}", handler.WalletHandler).Methods(http.MethodGet)
	router.HandleFunc("/wallets/{userId}/balance", handler.BalanceHandler).Methods(http.MethodGet)
	router.HandleFunc("/wallets/{userId}/transactions", handler.HistoryHandler).Methods(http.MethodGet)
	router.HandleFunc("/wallets/{userId}/eligible-products", handler.EligibleProductsHandler).Methods(http.MethodGet)
	router.HandleFunc("/wallets/{userId}/reconcile", handler.ReconcileHandler).Methods(http.MethodPost)
	router.HandleFunc("/wallets/{userId}/expire", handler.ExpireHandler).Methods(http.MethodPost)

	// купоны
	router.HandleFunc("/coupons", handler.SaveCouponHandler).Methods(http.MethodPost)
	router.HandleFunc("/coupons/{code}/validate", handler.ValidateCouponHandler).Methods(http.MethodPost)
	router.HandleFunc("/coupons/{code}/apply", handler.ApplyCouponHandler).Methods(http.MethodPost)

	return handler
}

func (h *LoyaltyHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.router.ServeHTTP(w, req)
}

func (h *LoyaltyHandler) Log(msg string, service string, err error) {
	h.logger.Error(msg,
		zap.String("service", service),
		zap.Error(err),
	)
}

// Настройки

func (h *LoyaltyHandler) SaveSystemSettingsHandler(w http.ResponseWriter, req *http.Request) {
	var sys models.SystemSettings
	if !h.decode(w, req, "SaveSystemSettingsHandler", &sys) {
		return
	}
	if err := h.admin.SaveSystemSettings(req.Context(), sys); err != nil {
		h.fail(w, "SaveSystemSettingsHandler", err)
		return
	}
	h.respond(w, "SaveSystemSettingsHandler", http.StatusOK, sys)
}

func (h *LoyaltyHandler) ListProductSettingsHandler(w http.ResponseWriter, req *http.Request) {
	list, err := h.service.ListProductSettings(req.Context())
	if err != nil {
		h.fail(w, "ListProductSettingsHandler", err)
		return
	}
	if list == nil {
		list = []models.ProductSettings{}
	}
	h.respond(w, "ListProductSettingsHandler", http.StatusOK, list)
}

func (h *LoyaltyHandler) SaveProductSettingsHandler(w http.ResponseWriter, req *http.Request) {
	var ps models.ProductSettings
	if !h.decode(w, req, "SaveProductSettingsHandler", &ps) {
		return
	}
	ps.ProductID = mux.Vars(req)["productId"]
	if err := h.admin.SaveProductSettings(req.Context(), ps); err != nil {
		h.fail(w, "SaveProductSettingsHandler", err)
		return
	}
	h.respond(w, "SaveProductSettingsHandler", http.StatusOK, ps)
}

func (h *LoyaltyHandler) ResolveSettingsHandler(w http.ResponseWriter, req *http.Request) {
	asOf, err := parseAsOf(req)
	if err != nil {
		http.Error(w, "asOf is not correct", http.StatusBadRequest)
		return
	}
	eff, err := h.service.ResolveSettings(req.Context(), mux.Vars(req)["productId"], asOf)
	if err != nil {
		h.fail(w, "ResolveSettingsHandler", err)
		return
	}
	h.respond(w, "ResolveSettingsHandler", http.StatusOK, eff)
}

func (h *LoyaltyHandler) CanStackHandler(w http.ResponseWriter, req *http.Request) {
	productId := mux.Vars(req)["productId"]
	ok, err := h.service.CanStackProduct(req.Context(), productId)
	if err != nil {
		h.fail(w, "CanStackHandler", err)
		return
	}
	h.respond(w, "CanStackHandler", http.StatusOK, StackingResponse{productId, ok})
}

// Монеты

func (h *LoyaltyHandler) EarnHandler(w http.ResponseWriter, req *http.Request) {
	var r EarnRequest
	if !h.decode(w, req, "EarnHandler", &r) {
		return
	}
	if r.UserID == "" || r.ProductID == "" {
		http.Error(w, "userId and productId are required", http.StatusBadRequest)
		return
	}
	asOf := time.Now()
	if r.AsOf != nil {
		asOf = *r.AsOf
	}
	tnx, err := h.service.EarnForItem(req.Context(), r.UserID, r.OrderID, models.LineItem{ProductID: r.ProductID, Price: r.Price, Quantity: r.Quantity}, asOf)
	if err != nil {
		h.fail(w, "EarnHandler", err)
		return
	}
	h.respond(w, "EarnHandler", http.StatusCreated, tnx)
}

func (h *LoyaltyHandler) RedeemHandler(w http.ResponseWriter, req *http.Request) {
	var r RedeemRequest
	if !h.decode(w, req, "RedeemHandler", &r) {
		return
	}
	if r.UserID == "" || r.ProductID == "" {
		http.Error(w, "userId and productId are required", http.StatusBadRequest)
		return
	}
	tnx, err := h.service.RedeemForOrder(req.Context(), r.UserID, r.Amount, r.ProductID, r.OrderID)
	if err != nil {
		h.fail(w, "RedeemHandler", err)
		return
	}
	h.respond(w, "RedeemHandler", http.StatusCreated, tnx)
}

func (h *LoyaltyHandler) AdjustHandler(w http.ResponseWriter, req *http.Request) {
	var r AdjustRequest
	if !h.decode(w, req, "AdjustHandler", &r) {
		return
	}
	if r.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	tnx, err := h.service.Ledger.Adjust(req.Context(), r.UserID, r.Type, r.Amount, models.Reference{OrderID: r.OrderID})
	if err != nil {
		h.fail(w, "AdjustHandler", err)
		return
	}
	h.respond(w, "AdjustHandler", http.StatusCreated, tnx)
}

func (h *LoyaltyHandler) ReverseHandler(w http.ResponseWriter, req *http.Request) {
	var r ReverseRequest
	if !h.decode(w, req, "ReverseHandler", &r) {
		return
	}
	if r.UserID == "" || r.OrderID == "" {
		http.Error(w, "userId and orderId are required", http.StatusBadRequest)
		return
	}
	tnx, err := h.service.Ledger.ReverseOrder(req.Context(), r.UserID, r.OrderID)
	if err != nil {
		h.fail(w, "ReverseHandler", err)
		return
	}
	// нечего отменять
	if tnx == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.respond(w, "ReverseHandler", http.StatusCreated, tnx)
}

// Кошельки

func (h *LoyaltyHandler) WalletHandler(w http.ResponseWriter, req *http.Request) {
	wallet, err := h.service.Ledger.Wallet(req.Context(), mux.Vars(req)["userId"])
	if err != nil {
		h.fail(w, "WalletHandler", err)
		return
	}
	h.respond(w, "WalletHandler", http.StatusOK, wallet)
}

func (h *LoyaltyHandler) BalanceHandler(w http.ResponseWriter, req *http.Request) {
	userId := mux.Vars(req)["userId"]
	balance, err := h.service.Ledger.Balance(req.Context(), userId)
	if err != nil {
		h.fail(w, "BalanceHandler", err)
		return
	}
	h.respond(w, "BalanceHandler", http.StatusOK, BalanceResponse{userId, balance})
}

func (h *LoyaltyHandler) HistoryHandler(w http.ResponseWriter, req *http.Request) {
	tnxs, err := h.service.Ledger.History(req.Context(), mux.Vars(req)["userId"])
	if err != nil {
		h.fail(w, "HistoryHandler", err)
		return
	}
	if tnxs == nil {
		tnxs = []models.Transaction{}
	}
	h.respond(w, "HistoryHandler", http.StatusOK, tnxs)
}

func (h *LoyaltyHandler) EligibleProductsHandler(w http.ResponseWriter, req *http.Request) {
	products, err := h.service.GetEligibleProducts(req.Context(), mux.Vars(req)["userId"])
	if err != nil {
		h.fail(w, "EligibleProductsHandler", err)
		return
	}
	h.respond(w, "EligibleProductsHandler", http.StatusOK, products)
}

func (h *LoyaltyHandler) ReconcileHandler(w http.ResponseWriter, req *http.Request) {
	report, err := h.service.Ledger.Reconcile(req.Context(), mux.Vars(req)["userId"])
	if err != nil {
		h.fail(w, "ReconcileHandler", err)
		return
	}
	h.respond(w, "ReconcileHandler", http.StatusOK, report)
}

func (h *LoyaltyHandler) ExpireHandler(w http.ResponseWriter, req *http.Request) {
	asOf, err := parseAsOf(req)
	if err != nil {
		http.Error(w, "asOf is not correct", http.StatusBadRequest)
		return
	}
	tnx, err := h.service.Ledger.ExpireDue(req.Context(), mux.Vars(req)["userId"], asOf)
	if err != nil {
		h.fail(w, "ExpireHandler", err)
		return
	}
	if tnx == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.respond(w, "ExpireHandler", http.StatusCreated, tnx)
}

// Купоны

func (h *LoyaltyHandler) SaveCouponHandler(w http.ResponseWriter, req *http.Request) {
	var c models.Coupon
	if !h.decode(w, req, "SaveCouponHandler", &c) {
		return
	}
	saved, err := h.admin.SaveCoupon(req.Context(), c)
	if err != nil {
		h.fail(w, "SaveCouponHandler", err)
		return
	}
	h.respond(w, "SaveCouponHandler", http.StatusOK, saved)
}

func (h *LoyaltyHandler) ValidateCouponHandler(w http.ResponseWriter, req *http.Request) {
	var order models.OrderContext
	if !h.decode(w, req, "ValidateCouponHandler", &order) {
		return
	}
	result, err := h.service.ValidateCoupon(req.Context(), mux.Vars(req)["code"], order)
	if err != nil {
		h.fail(w, "ValidateCouponHandler", err)
		return
	}
	h.respond(w, "ValidateCouponHandler", http.StatusOK, result)
}

func (h *LoyaltyHandler) ApplyCouponHandler(w http.ResponseWriter, req *http.Request) {
	var r ApplyRequest
	if !h.decode(w, req, "ApplyCouponHandler", &r) {
		return
	}
	applied, err := h.service.ApplyCoupon(req.Context(), mux.Vars(req)["code"], r.Order, r.OrderID)
	if err != nil {
		h.fail(w, "ApplyCouponHandler", err)
		return
	}
	h.respond(w, "ApplyCouponHandler", http.StatusOK, applied)
}

// общие части

func (h *LoyaltyHandler) decode(w http.ResponseWriter, req *http.Request, service string, v any) bool {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		h.Log("Get request body", service, err)
		http.Error(w, "Body is empty", http.StatusBadRequest)
		return false
	}
	defer req.Body.Close()
	err = json.Unmarshal(body, v)
	if err != nil {
		h.Log("Unmarshal", service, err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *LoyaltyHandler) respond(w http.ResponseWriter, service string, status int, v any) {
	j, err := json.Marshal(v)
	if err != nil {
		h.Log("Marshal", service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(j)
}

func (h *LoyaltyHandler) fail(w http.ResponseWriter, service string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.Log("Service call", service, err)
	}
	j, _ := json.Marshal(ErrorResponse{err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(j)
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidSettings),
		errors.Is(err, models.ErrInvalidTransaction):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrCoinsDisabled),
		errors.Is(err, models.ErrRedemptionDisabled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrConfigurationMissing):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func parseAsOf(req *http.Request) (time.Time, error) {
	v := req.URL.Query().Get("asOf")
	if v == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, v)
}
