package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_orders_placed_total",
		Help: "Total number of orders successfully placed.",
	})

	ReturnsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_returns_requested_total",
		Help: "Total number of return requests successfully created.",
	})

	StagesAdvancedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_stages_advanced_total",
		Help: "Total number of records advanced to a new stage by the progression engine.",
	},
		[]string{"collection"},
	)

	RefreshWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_refresh_writes_total",
		Help: "Total number of collection writes issued by refresh because a record changed.",
	},
		[]string{"collection"},
	)

	RefreshSuppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_refresh_suppressed_total",
		Help: "Total number of refreshes that wrote nothing because no record changed.",
	},
		[]string{"collection"},
	)

	MalformedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_malformed_records_total",
		Help: "Total number of records skipped during refresh because they could not be advanced.",
	},
		[]string{"collection"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
