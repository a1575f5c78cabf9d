package store

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// storeMetrics tracks per-namespace operation counters. The counters live
// in the process-wide default metrics set and can be exposed with
// metrics.WritePrometheus by the host.
type storeMetrics struct {
	puts           *metrics.Counter
	putsDeduped    *metrics.Counter
	gets           *metrics.Counter
	removes        *metrics.Counter
	clears         *metrics.Counter
	commits        *metrics.Counter
	commitFailures *metrics.Counter
}

func newStoreMetrics(namespace string) *storeMetrics {
	counter := func(op string) *metrics.Counter {
		return metrics.GetOrCreateCounter(
			fmt.Sprintf(`keepsake_ops_total{namespace=%q,op=%q}`, namespace, op))
	}

	return &storeMetrics{
		puts:           counter("put"),
		putsDeduped:    counter("put_deduped"),
		gets:           counter("get"),
		removes:        counter("remove"),
		clears:         counter("clear"),
		commits:        counter("commit"),
		commitFailures: counter("commit_failure"),
	}
}
