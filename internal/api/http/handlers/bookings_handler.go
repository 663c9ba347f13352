package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/api/dto"
	"github.com/eshaafi/appointment-service/internal/service"
)

// BookingsHandler exposes patient booking endpoints.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// Book handles POST /api/bookings.
func (h *BookingsHandler) Book(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.BookRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	appt, err := h.bookings.Book(c.Context(), principal, service.BookInput{
		DoctorID:  req.DoctorID,
		StartsAt:  req.StartsAt,
		VisitType: req.VisitType,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAppointmentResponse(appt)})
}

// List handles GET /api/bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	appts, err := h.bookings.ListMine(c.Context(), principal,
		queryIntDefault(c, "limit", 20), queryIntDefault(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appts))
	for i := range appts {
		items = append(items, dto.NewAppointmentResponse(&appts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Cancel handles DELETE /api/bookings/:bookingId.
func (h *BookingsHandler) Cancel(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	bookingID, err := paramID(c, "bookingId")
	if err != nil {
		return err
	}
	appt, err := h.bookings.Cancel(c.Context(), principal, bookingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponse(appt)})
}
