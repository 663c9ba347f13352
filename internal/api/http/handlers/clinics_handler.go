package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/api/dto"
	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/service"
)

// ClinicsHandler exposes the public clinic surface and the gated admin
// subtree.
type ClinicsHandler struct {
	clinics      *service.ClinicService
	applications *service.ApplicationService
}

// NewClinicsHandler constructs handler.
func NewClinicsHandler(clinics *service.ClinicService, applications *service.ApplicationService) *ClinicsHandler {
	return &ClinicsHandler{clinics: clinics, applications: applications}
}

// List handles GET /api/clinic/.
func (h *ClinicsHandler) List(c *fiber.Ctx) error {
	clinics, err := h.clinics.List(c.Context(),
		queryIntDefault(c, "limit", 20), queryIntDefault(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ClinicResponse, 0, len(clinics))
	for i := range clinics {
		items = append(items, dto.NewClinicResponse(&clinics[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/clinic/:clinicId.
func (h *ClinicsHandler) Get(c *fiber.Ctx) error {
	clinicID, err := paramID(c, "clinicId")
	if err != nil {
		return err
	}
	clinic, err := h.clinics.Get(c.Context(), clinicID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClinicResponse(clinic)})
}

// Doctors handles GET /api/clinic/:clinicId/doctors.
func (h *ClinicsHandler) Doctors(c *fiber.Ctx) error {
	clinicID, err := paramID(c, "clinicId")
	if err != nil {
		return err
	}
	doctors, err := h.clinics.Doctors(c.Context(), clinicID)
	if err != nil {
		return err
	}
	items := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		items = append(items, dto.NewDoctorResponse(&doctors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Apply handles POST /api/clinics/apply (public intake, same workflow as
// the doctor-side submission).
func (h *ClinicsHandler) Apply(c *fiber.Ctx) error {
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

// Applications handles GET /api/clinic/admin/applications?clinic_id=N.
func (h *ClinicsHandler) Applications(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	clinicID, err := queryID(c, "clinic_id")
	if err != nil {
		return err
	}
	var statuses []domain.ApplicationStatus
	if s := c.Query("status"); s != "" {
		statuses = append(statuses, domain.ApplicationStatus(s))
	}
	apps, err := h.applications.List(c.Context(), principal, clinicID, statuses)
	if err != nil {
		return err
	}
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewApplicationResponse(&apps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Approve handles PUT /api/clinic/admin/applications/:applicationId/approve.
func (h *ClinicsHandler) Approve(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	applicationID, err := paramID(c, "applicationId")
	if err != nil {
		return err
	}
	app, err := h.applications.Approve(c.Context(), principal, applicationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// Reject handles PUT /api/clinic/admin/applications/:applicationId/reject.
func (h *ClinicsHandler) Reject(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	applicationID, err := paramID(c, "applicationId")
	if err != nil {
		return err
	}
	app, err := h.applications.Reject(c.Context(), principal, applicationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewApplicationResponse(app)})
}

// RemoveDoctor handles DELETE /api/clinic/admin/doctors/:doctorId?clinic_id=N.
func (h *ClinicsHandler) RemoveDoctor(c *fiber.Ctx) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}
	doctorID, err := paramID(c, "doctorId")
	if err != nil {
		return err
	}
	clinicID, err := queryID(c, "clinic_id")
	if err != nil {
		return err
	}
	if err := h.applications.RemoveDoctor(c.Context(), principal, doctorID, clinicID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
