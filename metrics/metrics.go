package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kopichat_bookings_created_total",
		Help: "Bookings created through the wizard or the admin console.",
	})

	BookingsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kopichat_bookings_deleted_total",
		Help: "Bookings hard-deleted by their owner or an admin.",
	})

	SlotSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kopichat_slot_saves_total",
		Help: "Wholesale saves of a date's offered slot set.",
	})

	Logins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kopichat_logins_total",
		Help: "Successful sign-ins.",
	})
)
