package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eshaafi/appointment-service/internal/api/http/handlers"
	"github.com/eshaafi/appointment-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Users    *handlers.UsersHandler
	Doctors  *handlers.DoctorsHandler
	Clinics  *handlers.ClinicsHandler
	Bookings *handlers.BookingsHandler
	Admin    *handlers.AdminHandler
	Gate     *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Literal paths are registered before
// parameterized siblings within each group: /doctor/specialities must not be
// swallowed by /doctor/:doctorId, and the /clinic/admin subtree must precede
// /clinic/:clinicId. That ordering is a correctness requirement.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Post("/logout", cfg.Users.Logout)
	users.Get("/profile", cfg.Gate.Authenticate, auth.RequireAuthenticated(), cfg.Users.Profile)
	users.Put("/profile", cfg.Gate.Authenticate, auth.RequireAuthenticated(), cfg.Users.UpdateProfile)

	admin := api.Group("/admin", cfg.Gate.Authenticate, auth.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/applications", cfg.Admin.Applications)

	doctor := api.Group("/doctor")
	doctor.Post("/apply", cfg.Doctors.Apply)
	doctor.Get("/all", cfg.Doctors.List)
	doctor.Get("/specialities", cfg.Doctors.Specialities)

	doctor.Get("/profile", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.Profile)
	doctor.Put("/profile", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.UpsertProfile)
	doctor.Get("/availability", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.Availability)
	doctor.Post("/availability", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.AddSlot)
	doctor.Put("/availability/:slotId", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.UpdateSlot)
	doctor.Delete("/availability/:slotId", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.DeleteSlot)
	doctor.Get("/appointments", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.Appointments)
	doctor.Put("/appointments/:appointmentId/status", cfg.Gate.Authenticate, auth.RequireDoctor(), cfg.Doctors.SetAppointmentStatus)

	doctor.Post("/:doctorId/reviews", cfg.Gate.Authenticate, auth.RequireAuthenticated(), cfg.Doctors.AddReview)
	doctor.Get("/:doctorId", cfg.Doctors.Get)

	clinicAdmin := api.Group("/clinic/admin", cfg.Gate.Authenticate, auth.RequireClinicAdmin())
	clinicAdmin.Get("/applications", cfg.Clinics.Applications)
	clinicAdmin.Put("/applications/:applicationId/approve", cfg.Clinics.Approve)
	clinicAdmin.Put("/applications/:applicationId/reject", cfg.Clinics.Reject)
	clinicAdmin.Delete("/doctors/:doctorId", cfg.Clinics.RemoveDoctor)

	clinic := api.Group("/clinic")
	clinic.Get("/", cfg.Clinics.List)
	clinic.Get("/:clinicId", cfg.Clinics.Get)
	clinic.Get("/:clinicId/doctors", cfg.Clinics.Doctors)

	api.Post("/clinics/apply", cfg.Clinics.Apply)

	bookings := api.Group("/bookings", cfg.Gate.Authenticate, auth.RequireAuthenticated())
	bookings.Post("/", cfg.Bookings.Book)
	bookings.Get("/", cfg.Bookings.List)
	bookings.Delete("/:bookingId", cfg.Bookings.Cancel)
}
