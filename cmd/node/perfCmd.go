package node

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dkvnode/cmd/util"
	"github.com/ValentinKolb/dkvnode/rpc/client"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dkvnode",
		Long:    "Runs every benchmark with the configured number of concurrent senders on one connection and prints latency percentiles and throughput",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__perf"
	perfValueSize  = 16
	perfNumThreads = 10
	perfNumOps     = 10000
	perfKeySpread  = 100
	perfSkip       = make([]string, 0)
)

// perfResult is the outcome of one benchmark
type perfResult struct {
	name    string
	timer   metrics.Timer
	errors  metrics.Counter
	elapsed time.Duration
}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent senders sharing the connection"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("Number of commands sent per benchmark"))
	key = "value-size"
	perfTestCmd.Flags().Int(key, 16, util.WrapString("Size of the values written by the put benchmarks (in bytes)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	perfValueSize = viper.GetInt("value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfNumOps = max(viper.GetInt("ops"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dkvnode")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Node: %s\n", remoteNode)
	fmt.Printf("Serializer: %s, Transport: %s\n", viper.GetString("serializer"), viper.GetString("transport"))
	fmt.Printf("Threads: %d, Ops: %d, Keys: %d\n", perfNumThreads, perfNumOps, perfKeySpread)
	fmt.Println()

	// fail fast if the node is not reachable
	if err := remoteNode.Connect(); err != nil {
		return err
	}

	fmt.Println("starting tests...")

	bucket := util.GetBucket()
	value := make([]byte, perfValueSize)
	registry := metrics.NewRegistry()
	results := make([]perfResult, 0)

	benchmarks := []struct {
		name    string
		prepare bool
		op      func(key string, i int) error
	}{
		{"ping", false, func(string, int) error {
			_, err := client.Ping(remoteNode)
			return err
		}},
		{"put", false, func(key string, _ int) error {
			return rpcStore.Put(bucket, key, value)
		}},
		{"get", true, func(key string, _ int) error {
			_, _, err := rpcStore.Get(bucket, key)
			return err
		}},
		{"contains", true, func(key string, _ int) error {
			_, err := rpcStore.Contains(bucket, key)
			return err
		}},
		{"remove", true, func(key string, _ int) error {
			_, err := rpcStore.Remove(bucket, key)
			return err
		}},
		{"mixed", true, func(key string, i int) error {
			var err error
			switch i % 4 {
			case 0: // put
				err = rpcStore.Put(bucket, key, value)
			case 1: // get
				_, _, err = rpcStore.Get(bucket, key)
			case 2: // contains
				_, err = rpcStore.Contains(bucket, key)
			case 3: // remove
				_, err = rpcStore.Remove(bucket, key)
			}
			return err
		}},
	}

	for _, bench := range benchmarks {
		if shouldSkip(bench.name) {
			fmt.Printf("%-12sskipped\n", bench.name)
			continue
		}

		getKey, iter := getKeys(bench.name)
		if bench.prepare {
			iter(func(k string) {
				if err := rpcStore.Put(bucket, k, value); err != nil {
					fmt.Printf("(%s) - error setting key: %v\n", bench.name, err)
				}
			})
		}

		result := runBenchmark(registry, bench.name, func(i int) error {
			return bench.op(getKey(i), i)
		})
		results = append(results, result)
		printResult(result)

		// cleanup
		iter(func(k string) {
			if _, err := rpcStore.Remove(bucket, k); err != nil {
				fmt.Printf("(%s) - error removing key: %v\n", bench.name, err)
			}
		})
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runBenchmark sends perfNumOps commands from perfNumThreads goroutines and
// records the latency of every command
func runBenchmark(registry metrics.Registry, name string, op func(i int) error) perfResult {
	result := perfResult{
		name:   name,
		timer:  metrics.GetOrRegisterTimer(name+".latency", registry),
		errors: metrics.GetOrRegisterCounter(name+".errors", registry),
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= perfNumOps {
					return
				}
				opStart := time.Now()
				err := op(i)
				result.timer.UpdateSince(opStart)
				if err != nil {
					result.errors.Inc(1)
				}
			}
		}()
	}

	wg.Wait()
	result.elapsed = time.Since(start)
	return result
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// opsPerSec returns the throughput of a benchmark
func (r perfResult) opsPerSec() float64 {
	return float64(r.timer.Count()) / max(r.elapsed.Seconds(), 1e-9)
}

// printResult prints the result of a benchmark in a formatted way
func printResult(r perfResult) {
	ps := r.timer.Percentiles([]float64{0.5, 0.99})
	fmt.Printf("%-12s%8d ops  %6d err  mean %-10s p50 %-10s p99 %-10s max %-10s %.0f ops/sec\n",
		r.name,
		r.timer.Count(),
		r.errors.Count(),
		time.Duration(r.timer.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(r.timer.Max()),
		r.opsPerSec(),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "Ops", "Errors", "MeanNs", "P50Ns", "P99Ns", "MaxNs", "OpsPerSec",
		"Node", "Serializer", "Transport", "Threads", "ValueSize", "Keys",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, r := range results {
		ps := r.timer.Percentiles([]float64{0.5, 0.99})
		row := []string{
			r.name,
			strconv.FormatInt(r.timer.Count(), 10),
			strconv.FormatInt(r.errors.Count(), 10),
			fmt.Sprintf("%.0f", r.timer.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			strconv.FormatInt(r.timer.Max(), 10),
			fmt.Sprintf("%.0f", r.opsPerSec()),
			remoteNode.String(),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfValueSize),
			strconv.Itoa(perfKeySpread),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", r.name, err)
		}
	}

	return nil
}
