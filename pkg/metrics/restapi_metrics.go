package metrics

import (
	"go.uber.org/atomic"
)

// RestAPIMetrics defines REST API metrics over the entire runtime of the node.
type RestAPIMetrics struct {
	// The total number of HTTP requests.
	HTTPRequestCounter atomic.Uint64
	// The total number of HTTP request errors.
	HTTPRequestErrorCounter atomic.Uint64
	// The number of requests rejected by the domain rules (4xx).
	HTTPRequestRejectedCounter atomic.Uint64
}
