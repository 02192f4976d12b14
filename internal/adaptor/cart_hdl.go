package adaptor

import (
	"encoding/json"
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// IdempotencyHeader lets clients retry a direct checkout safely.
const IdempotencyHeader = "Idempotency-Key"

type CartHandler struct {
	cart     usecase.CartService
	checkout usecase.CheckoutService
	log      *zap.Logger
}

func NewCartHandler(cart usecase.CartService, checkout usecase.CheckoutService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		log:      log.With(zap.String("handler", "cart")),
	}
}

// GetActive handles GET /paniers/active
func (h *CartHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	cart, err := h.cart.GetActiveCart(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get active cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// AddRoom handles POST /paniers/add
func (h *CartHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.AddRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	stay, err := h.cart.AddRoom(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add room to cart")
		return
	}

	utils.ResponseCreated(w, "Room added to cart", stay)
}

// AddService handles POST /paniers/add-service
func (h *CartHandler) AddService(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.AddServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.cart.AddService(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add service to cart")
		return
	}

	utils.ResponseCreated(w, "Service added", booking)
}

// RemoveRoom handles DELETE /paniers/remove/{id}
func (h *CartHandler) RemoveRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	total, err := h.cart.RemoveRoomStay(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "remove room from cart")
		return
	}

	utils.ResponseSuccess(w, "Room removed from cart", total)
}

// RemoveService handles DELETE /paniers/remove-service/{id}
func (h *CartHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	total, err := h.cart.RemoveService(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "remove service from cart")
		return
	}

	utils.ResponseSuccess(w, "Service removed from cart", total)
}

// Checkout handles POST /paniers/checkout?pointsUsed=N
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	pointsUsed, err := utils.ParseNonNegativeInt(r.URL.Query().Get("pointsUsed"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid pointsUsed", map[string]string{"pointsUsed": err.Error()})
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), userID, pointsUsed, r.Header.Get(IdempotencyHeader))
	if err != nil {
		handleServiceError(h.log, w, err, "checkout")
		return
	}

	utils.ResponseSuccess(w, receipt.Message, receipt)
}

// CreateCheckoutSession handles POST /paniers/create-checkout-session?pointsUsed=N
func (h *CartHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	pointsUsed, err := utils.ParseNonNegativeInt(r.URL.Query().Get("pointsUsed"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid pointsUsed", map[string]string{"pointsUsed": err.Error()})
		return
	}

	session, err := h.checkout.CreateCheckoutSession(r.Context(), userID, pointsUsed)
	if err != nil {
		handleServiceError(h.log, w, err, "create checkout session")
		return
	}

	utils.ResponseCreated(w, "Checkout session created", session)
}

// ConfirmCheckoutSession handles POST /paniers/checkout-session/{sessionId}/confirm
func (h *CartHandler) ConfirmCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	receipt, err := h.checkout.ConfirmCheckoutSession(r.Context(), userID, chi.URLParam(r, "sessionId"))
	if err != nil {
		handleServiceError(h.log, w, err, "confirm checkout session")
		return
	}

	utils.ResponseSuccess(w, receipt.Message, receipt)
}
