package kv

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for a keepsake namespace",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads  = 10
	perfKeySpread   = 100
	perfOpsPerKind  = 10000
	perfValueSizeKB = 1
)

func init() {
	key := "threads"
	perfTestCmd.Flags().Int(key, 10, "Number of goroutines to use for the benchmark")
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, "How many different keys to use for the tests")
	key = "ops"
	perfTestCmd.Flags().Int(key, 10000, "How many operations to run per benchmark")
	key = "value-size"
	perfTestCmd.Flags().Int(key, 1, "Size of the string values (in KB)")
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfNumThreads = viper.GetInt("threads")
	perfKeySpread = viper.GetInt("keys")
	perfOpsPerKind = viper.GetInt("ops")
	perfValueSizeKB = viper.GetInt("value-size")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for keepsake")
	fmt.Println()
	fmt.Printf("Namespace:  %s\n", kvStore.Namespace())
	fmt.Printf("Threads:    %d\n", perfNumThreads)
	fmt.Printf("Keys:       %d\n", perfKeySpread)
	fmt.Printf("Ops:        %d\n", perfOpsPerKind)
	fmt.Printf("Value size: %d KB\n", perfValueSizeKB)
	fmt.Println()

	// Random key set so repeated runs don't hit the dedup fast path.
	runID := uuid.NewString()
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("__perf/%s/%d", runID, i)
	}

	value := make([]byte, perfValueSizeKB*1024)
	for i := range value {
		value[i] = byte('a' + i%26)
	}

	putTimer := gometrics.NewTimer()
	commitTimer := gometrics.NewTimer()
	getTimer := gometrics.NewTimer()

	// Puts: putTimer tracks the synchronous phase, commitTimer the full
	// round trip until the completion callback fires.
	var wg sync.WaitGroup
	var commitWg sync.WaitGroup
	wg.Add(perfNumThreads)
	for th := 0; th < perfNumThreads; th++ {
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perfOpsPerKind/perfNumThreads; i++ {
				key := keys[(thread+i)%len(keys)]
				payload := fmt.Sprintf("%d-%s", i, value)

				commitWg.Add(1)
				start := time.Now()
				err := kvStore.PutString(key, payload, func(bool) {
					commitTimer.UpdateSince(start)
					commitWg.Done()
				})
				putTimer.UpdateSince(start)
				if err != nil {
					commitWg.Done()
				}
			}
		}(th)
	}
	wg.Wait()
	commitWg.Wait()

	// Gets.
	wg.Add(perfNumThreads)
	for th := 0; th < perfNumThreads; th++ {
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perfOpsPerKind/perfNumThreads; i++ {
				key := keys[(thread+i)%len(keys)]
				start := time.Now()
				kvStore.GetString(key, "")
				getTimer.UpdateSince(start)
			}
		}(th)
	}
	wg.Wait()

	printTimer("put (sync phase)", putTimer)
	printTimer("put (commit round trip)", commitTimer)
	printTimer("get", getTimer)

	// Leave no benchmark residue in the namespace.
	for _, key := range keys {
		kvStore.Remove(key, nil)
	}
	kvStore.Flush()

	return nil
}

func printTimer(name string, t gometrics.Timer) {
	ps := t.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-24s count=%-8d mean=%-12s p50=%-12s p95=%-12s p99=%-12s\n",
		name,
		t.Count(),
		time.Duration(t.Mean()).Round(time.Microsecond),
		time.Duration(ps[0]).Round(time.Microsecond),
		time.Duration(ps[1]).Round(time.Microsecond),
		time.Duration(ps[2]).Round(time.Microsecond),
	)
}
