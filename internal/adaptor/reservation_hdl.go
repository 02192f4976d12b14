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

type ReservationHandler struct {
	availability usecase.AvailabilityService
	service      usecase.ReservationService
	log          *zap.Logger
}

func NewReservationHandler(availability usecase.AvailabilityService, service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		availability: availability,
		service:      service,
		log:          log.With(zap.String("handler", "reservation")),
	}
}

// CheckAvailability handles GET /reservations/check-availability (public)
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.AvailabilityRequest{
		TypeID:    query.Get("typeId"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.availability.CheckAvailability(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// UnavailableDates handles GET /reservations/unavailable-dates (public)
func (h *ReservationHandler) UnavailableDates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.UnavailableDatesRequest{
		TypeID: query.Get("typeId"),
		Start:  query.Get("start"),
		End:    query.Get("end"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	dates, err := h.availability.ListUnavailableDates(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list unavailable dates")
		return
	}

	utils.ResponseSuccess(w, "success", dates)
}

// BookRoom handles POST /reservations (customer)
func (h *ReservationHandler) BookRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.BookRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	stay, err := h.service.BookRoom(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "book room")
		return
	}

	utils.ResponseCreated(w, "Reservation confirmed", stay)
}

// StaffBookRoom handles POST /reservations/staff (room manager)
func (h *ReservationHandler) StaffBookRoom(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	var req request.StaffBookRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	stay, err := h.service.StaffBookRoom(r.Context(), access, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "staff book room")
		return
	}

	utils.ResponseCreated(w, "Reservation confirmed", stay)
}

// MyReservations handles GET /reservations/mine (customer)
func (h *ReservationHandler) MyReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	stays, err := h.service.MyReservations(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "list my reservations")
		return
	}

	utils.ResponseSuccess(w, "success", stays)
}

// ListReservations handles GET /reservations (room manager)
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	page, err := h.service.ListReservations(r.Context(), access, paginationFromQuery(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// CompleteRoomStay handles PUT /reservations/{id}/complete (room manager)
func (h *ReservationHandler) CompleteRoomStay(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	stay, err := h.service.CompleteRoomStay(r.Context(), access, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "complete reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation completed", stay)
}

// CancelRoomStay handles PUT /reservations/{id}/cancel (admin)
func (h *ReservationHandler) CancelRoomStay(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	stay, err := h.service.CancelRoomStay(r.Context(), access, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled", stay)
}

// ==================== SERVICE RESERVATIONS ====================

// ReserveService handles POST /services/{id}/reserve (customer, or staff for a guest)
func (h *ReservationHandler) ReserveService(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	var req request.ReserveServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.ReserveService(r.Context(), access, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "reserve service")
		return
	}

	utils.ResponseCreated(w, "Service reserved", booking)
}

// ListServiceReservations handles GET /services/reservations (staff)
func (h *ReservationHandler) ListServiceReservations(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListServiceReservations(r.Context(), access, paginationFromQuery(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list service reservations")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CompleteService handles PUT /services/reservations/{id}/complete (staff)
func (h *ReservationHandler) CompleteService(w http.ResponseWriter, r *http.Request) {
	access, ok := callerAccess(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CompleteService(r.Context(), access, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "complete service")
		return
	}

	utils.ResponseSuccess(w, "Service completed", booking)
}
