// Package metrics defines all custom Prometheus metrics for the supply
// brokering API. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default registry
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "supply"

// OrdersCreatedTotal counts successfully created orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// ProductsCreatedTotal counts catalog products created, by type.
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of catalog products created, by product type.",
	},
	[]string{"type"},
)

// InterestUpsertsTotal counts supplier interest upserts.
// Label:
//   - result: "created" (first row for the pair) or "updated" (in-place)
var InterestUpsertsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interest_upserts_total",
		Help:      "Total number of supplier interest upserts, by result.",
	},
	[]string{"result"},
)

// PolicyDenialsTotal counts access policy denials.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the access policy, by reason.",
	},
	[]string{"reason"},
)

// ActivityQueueDepth tracks pending interest activity records per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of interest activity records pending per recorder worker.",
	},
	[]string{"worker_id"},
)
