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

type StaffHandler struct {
	service usecase.StaffService
	log     *zap.Logger
}

func NewStaffHandler(service usecase.StaffService, log *zap.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		log:     log.With(zap.String("handler", "staff")),
	}
}

// CreateStaff handles POST /admin/staff
func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req request.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	member, err := h.service.CreateStaff(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create staff")
		return
	}

	utils.ResponseCreated(w, "Staff member created", member)
}

// PromoteToAdmin handles PUT /admin/staff/{id}/promote
func (h *StaffHandler) PromoteToAdmin(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.PromoteToAdmin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "promote staff")
		return
	}

	utils.ResponseSuccess(w, "Staff member promoted", member)
}

// ListStaff handles GET /admin/staff
func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.service.ListStaff(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list staff")
		return
	}

	utils.ResponseSuccess(w, "success", staff)
}

// ListCustomers handles GET /customers (staff)
func (h *StaffHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list customers")
		return
	}

	utils.ResponseSuccess(w, "success", customers)
}
