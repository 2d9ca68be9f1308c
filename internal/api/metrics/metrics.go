// Package metrics defines and registers all custom Prometheus metrics for
// the appointment API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinicbook"

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success", "invalid_credentials", or "role_barred"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AppointmentsCreatedTotal counts successfully booked appointments.
var AppointmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments booked.",
	},
)

// SlotConflictsTotal counts bookings rejected by the slot uniqueness
// constraint (create and update paths).
var SlotConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of bookings rejected because the doctor already held the slot.",
	},
)

// SummaryRequestsTotal counts summary report executions.
var SummaryRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_requests_total",
		Help:      "Total number of appointment summary reports served.",
	},
)
