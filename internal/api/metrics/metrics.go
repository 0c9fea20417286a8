// Package metrics defines the custom Prometheus collectors of the task API.
// Collectors register with the default registry on import; HTTP request
// metrics come from the echoprometheus middleware installed by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmanager"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login outcomes.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "rejected", "partial" (account stored, no token) or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly stored tasks.
// Label:
//   - replayed: "true" when an Idempotency-Key returned an existing task
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of task create requests served, split by idempotent replay.",
	},
	[]string{"replayed"},
)

// TaskOperationsTotal counts update and delete outcomes.
// Labels:
//   - operation: "update" or "delete"
//   - result: "success", "not_found", "invalid" or "error"
var TaskOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_operations_total",
		Help:      "Total number of task mutations, by operation and outcome.",
	},
	[]string{"operation", "result"},
)
