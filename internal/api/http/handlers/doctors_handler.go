package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/api/dto"
	"github.com/eshaafi/appointment-service/internal/repository"
	"github.com/eshaafi/appointment-service/internal/service"
)

// DoctorsHandler exposes the doctor directory and doctor self-service routes.
type DoctorsHandler struct {
	doctors      *service.DoctorService
	bookings     *service.BookingService
	applications *service.ApplicationService
}

// NewDoctorsHandler constructs handler.
func NewDoctorsHandler(doctors *service.DoctorService, bookings *service.BookingService, applications *service.ApplicationService) *DoctorsHandler {
	return &DoctorsHandler{doctors: doctors, bookings: bookings, applications: applications}
}

// Apply handles POST /api/doctor/apply (public intake).
func (h *DoctorsHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplicationRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	app, err := h.applications.Submit(c.Context(), service.SubmitInput{
		ClinicID:   req.ClinicID,
		DoctorID:   req.DoctorID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Speciality: req.Speciality,
		Location:   req.Location,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// List handles GET /api/doctor/all.
func (h *DoctorsHandler) List(c *fiber.Ctx) error {
	filter := repository.DoctorFilter{
		Limit:  queryIntDefault(c, "limit", 20),
		Offset: queryIntDefault(c, "offset", 0),
	}
	if s := c.Query("speciality"); s != "" {
		filter.Speciality = &s
	}
	if l := c.Query("location"); l != "" {
		filter.Location = &l
	}
	if q := c.Query("q"); q != "" {
		filter.SearchTerm = &q
	}

	doctors, err := h.doctors.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		items = append(items, dto.NewDoctorResponse(&doctors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Specialities handles GET /api/doctor/specialities.
func (h *DoctorsHandler) Specialities(c *fiber.Ctx) error {
	specialities, err := h.doctors.Specialities(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": specialities})
}

// Get handles GET /api/doctor/:doctorId (public detail).
func (h *DoctorsHandler) Get(c *fiber.Ctx) error {
	doctorID, err := paramID(c, "doctorId")
	if err != nil {
		return err
	}
	doctor, err := h.doctors.Get(c.Context(), doctorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDoctorResponse(doctor)})
}

// Profile handles GET /api/doctor/profile.
func (h *DoctorsHandler) Profile(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	doctor, err := h.doctors.ProfileFor(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDoctorResponse(doctor)})
}

// UpsertProfile handles PUT /api/doctor/profile.
func (h *DoctorsHandler) UpsertProfile(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.DoctorProfileRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	doctor, err := h.doctors.UpsertProfile(c.Context(), principal, service.ProfileInput{
		Name:       req.Name,
		Speciality: req.Speciality,
		Location:   req.Location,
		Bio:        req.Bio,
		FeePKR:     req.FeePKR,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDoctorResponse(doctor)})
}

// Availability handles GET /api/doctor/availability.
func (h *DoctorsHandler) Availability(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	doctor, err := h.doctors.ProfileFor(c.Context(), principal)
	if err != nil {
		return err
	}
	slots, err := h.doctors.Availability(c.Context(), doctor.ID)
	if err != nil {
		return err
	}
	items := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		items = append(items, dto.NewSlotResponse(&slots[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddSlot handles POST /api/doctor/availability.
func (h *DoctorsHandler) AddSlot(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	var req dto.SlotRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	slot, err := h.doctors.AddSlot(c.Context(), principal, service.SlotInput{
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSlotResponse(slot)})
}

// UpdateSlot handles PUT /api/doctor/availability/:slotId.
func (h *DoctorsHandler) UpdateSlot(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	slotID, err := paramID(c, "slotId")
	if err != nil {
		return err
	}
	var req dto.SlotRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	slot, err := h.doctors.UpdateSlot(c.Context(), principal, slotID, service.SlotInput{
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSlotResponse(slot)})
}

// DeleteSlot handles DELETE /api/doctor/availability/:slotId.
func (h *DoctorsHandler) DeleteSlot(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	slotID, err := paramID(c, "slotId")
	if err != nil {
		return err
	}
	if err := h.doctors.DeleteSlot(c.Context(), principal, slotID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Appointments handles GET /api/doctor/appointments.
func (h *DoctorsHandler) Appointments(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	appts, err := h.bookings.DoctorAppointments(c.Context(), principal,
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

// SetAppointmentStatus handles PUT /api/doctor/appointments/:appointmentId/status.
func (h *DoctorsHandler) SetAppointmentStatus(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	appointmentID, err := paramID(c, "appointmentId")
	if err != nil {
		return err
	}
	var req dto.AppointmentStatusRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	appt, err := h.bookings.SetAppointmentStatus(c.Context(), principal, appointmentID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponse(appt)})
}

// AddReview handles POST /api/doctor/:doctorId/reviews.
func (h *DoctorsHandler) AddReview(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	doctorID, err := paramID(c, "doctorId")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := validateBody(c, &req); err != nil {
		return err
	}
	review, err := h.doctors.AddReview(c.Context(), principal, doctorID, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}
