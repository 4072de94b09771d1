package netservice

//
// Metrics definitions
//

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricServiceLookups counts the service lookups by result ("ok" or "error").
	metricServiceLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netservice_service_lookups_count",
		Help: "Total number of service lookups",
	}, []string{"result"})

	// metricTargetsSkipped counts the targets we skipped by reason.
	metricTargetsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netservice_targets_skipped_count",
		Help: "Total number of targets skipped because of an error",
	}, []string{"reason"})

	// metricAddressesEmitted counts the addresses returned to callers.
	metricAddressesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netservice_addresses_emitted_count",
		Help: "Total number of addresses returned by enumerators",
	})

	// metricDeferredErrorsSurfaced counts the deferred errors we returned
	// because all the targets failed.
	metricDeferredErrorsSurfaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netservice_deferred_errors_surfaced_count",
		Help: "Total number of enumerations that failed after trying all targets",
	})
)
