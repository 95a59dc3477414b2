package routes

import (
	"kopichat/admin"
	"kopichat/auth"
	"kopichat/availability"
	"kopichat/bookings"
	"kopichat/live"
	"kopichat/middleware"
	"kopichat/ratelim"
	"kopichat/slots"
	"kopichat/wizard"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddSlotRoutes(router *httprouter.Router) {
	router.GET("/api/slots/universe", middleware.Authenticate(slots.GetUniverse))
	router.GET("/api/slots/day/:date", middleware.Authenticate(slots.GetSlotsByDate))
	router.PUT("/api/slots/day/:date", middleware.Authenticate(middleware.RequireAdmin(slots.SetSlotsByDate)))
}

func AddAvailabilityRoutes(router *httprouter.Router) {
	router.GET("/api/availability/dates", middleware.Authenticate(availability.GetBookableDates))
	router.GET("/api/availability/day/:date", middleware.Authenticate(availability.GetFreeSlots))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.GET("/api/bookings/mine", middleware.Authenticate(bookings.ListMine))
	router.DELETE("/api/bookings/item/:bookingId", middleware.Authenticate(bookings.DeleteMine))
	router.GET("/api/bookings/item/:bookingId/pass", middleware.Authenticate(bookings.PrintPass))
}

func AddWizardRoutes(router *httprouter.Router, wiz *wizard.Wizard, rl *ratelim.RateLimiter) {
	h := wizard.NewHandlers(wiz)
	router.GET("/api/wizard", middleware.Authenticate(h.Current))
	router.POST("/api/wizard/date", middleware.Authenticate(h.SelectDate))
	router.POST("/api/wizard/time", middleware.Authenticate(h.SelectTime))
	router.POST("/api/wizard/back", middleware.Authenticate(h.Back))
	router.POST("/api/wizard/confirm", rl.Limit(middleware.Authenticate(h.Confirm)))
	router.POST("/api/wizard/reset", middleware.Authenticate(h.Reset))
	router.POST("/api/wizard/edit/:bookingId", middleware.Authenticate(h.StartEdit))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/users", middleware.Authenticate(middleware.RequireAdmin(admin.ListUsers)))
	router.POST("/api/admin/users", middleware.Authenticate(middleware.RequireAdmin(admin.CreateUser)))
	router.PUT("/api/admin/users/:userId", middleware.Authenticate(middleware.RequireAdmin(admin.UpdateUser)))
	router.DELETE("/api/admin/users/:userId", middleware.Authenticate(middleware.RequireAdmin(admin.DeleteUser)))

	router.GET("/api/admin/bookings", middleware.Authenticate(middleware.RequireAdmin(admin.ListBookings)))
	router.POST("/api/admin/bookings", middleware.Authenticate(middleware.RequireAdmin(admin.CreateBooking)))
	router.PUT("/api/admin/bookings/:bookingId", middleware.Authenticate(middleware.RequireAdmin(admin.UpdateBooking)))
	router.PATCH("/api/admin/bookings/:bookingId/status", middleware.Authenticate(middleware.RequireAdmin(admin.PatchBookingStatus)))
	router.DELETE("/api/admin/bookings/:bookingId", middleware.Authenticate(middleware.RequireAdmin(admin.DeleteBooking)))

	router.GET("/api/admin/export/bookings", middleware.Authenticate(middleware.RequireAdmin(admin.ExportBookings)))
}

func AddLiveRoutes(router *httprouter.Router) {
	router.GET("/ws/availability/:date", live.HandleWS)
}
