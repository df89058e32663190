package bench

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jhprinz/chainstore/cmd/util"
	"github.com/jhprinz/chainstore/lib/chain"
	"github.com/jhprinz/chainstore/lib/medium"
	"github.com/jhprinz/chainstore/lib/store"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCommands represents the bench command
	BenchCommands = &cobra.Command{
		Use:     "bench",
		Short:   "Benchmark the chain layers over a medium engine",
		RunE:    run,
		PreRunE: processBenchConfig,
	}

	benchOps           = 10000
	benchKeySpread     = 100
	benchCacheCapacity = 0
	benchBufferSize    = 0
	benchDestinations  = 2
	benchSkip          = make([]string, 0)
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common medium flags
	util.SetupMediumFlags(BenchCommands)

	// add flags
	key := "ops"
	BenchCommands.PersistentFlags().Int(key, 10000, util.WrapString("Number of timed operations per benchmark"))
	key = "keys"
	BenchCommands.PersistentFlags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "cache-capacity"
	BenchCommands.PersistentFlags().Int(key, 0, util.WrapString("LRU capacity of the buffered store cache (0 for unbounded)"))
	key = "buffer-size"
	BenchCommands.PersistentFlags().Int(key, 0, util.WrapString("Write buffer size triggering auto-sync (0 for manual sync only)"))
	key = "destinations"
	BenchCommands.PersistentFlags().Int(key, 2, util.WrapString("Number of fan-out destinations for the multi benchmark"))
	key = "skip"
	BenchCommands.PersistentFlags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get-hot)"))
	key = "csv"
	BenchCommands.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchOps = viper.GetInt("ops")
	benchKeySpread = viper.GetInt("keys")
	benchCacheCapacity = viper.GetInt("cache-capacity")
	benchBufferSize = viper.GetInt("buffer-size")
	benchDestinations = viper.GetInt("destinations")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	if benchKeySpread > viper.GetInt("values") {
		return fmt.Errorf("keys (%d) must not exceed values (%d)", benchKeySpread, viper.GetInt("values"))
	}
	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Benchmark tool for chainstore layers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Engine: %s\n", viper.GetString("engine"))
	fmt.Printf("Ops: %d, Keys: %d, CacheCapacity: %d, BufferSize: %d\n",
		benchOps, benchKeySpread, benchCacheCapacity, benchBufferSize)
	fmt.Println()

	fmt.Println("starting benchmarks...")

	registry := metrics.NewRegistry()
	scenarios := []struct {
		name string
		fn   func(metrics.Timer) error
	}{
		{"set", benchSet},
		{"sync", benchSync},
		{"get-cold", benchGetCold},
		{"get-hot", benchGetHot},
		{"lru-churn", benchLRUChurn},
		{"multi-get", benchMultiGet},
		{"chain-get", benchChainGet},
	}

	for _, sc := range scenarios {
		timer := metrics.GetOrRegisterTimer(sc.name, registry)
		if shouldSkip(sc.name) {
			printResult(sc.name, timer)
			continue
		}
		if err := sc.fn(timer); err != nil {
			return fmt.Errorf("benchmark %s failed: %v", sc.name, err)
		}
		printResult(sc.name, timer)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Scenarios
// --------------------------------------------------------------------------

func benchOptions() *store.Options[*medium.Object] {
	opts := store.DefaultOptions[*medium.Object]()
	opts.Name = "bench"
	opts.CacheCapacity = benchCacheCapacity
	opts.MaxBufferSize = benchBufferSize
	return opts
}

// newKeys creates the benchmark key set bound to med at offsets 0..n-1
func newKeys(med medium.Medium, n int) ([]*medium.Object, error) {
	keys := make([]*medium.Object, n)
	for i := range keys {
		keys[i] = medium.NewObject()
		if err := keys[i].Bind(med.Handle(), uint64(i)); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func benchSet(timer metrics.Timer) error {
	med, err := util.OpenMedium("bench-set")
	if err != nil {
		return err
	}
	keys, err := newKeys(med, benchKeySpread)
	if err != nil {
		return err
	}
	bs := store.NewBufferedStore(med, benchOptions())

	for i := 0; i < benchOps; i++ {
		k := keys[i%len(keys)]
		v := chain.Scalar(float64(i))
		timer.Time(func() {
			if err := bs.Set([]*medium.Object{k}, []chain.Value{v}); err != nil {
				log.Printf("(set) - error setting key: %v", err)
			}
		})
	}
	return bs.Sync()
}

func benchSync(timer metrics.Timer) error {
	med, err := util.OpenMedium("bench-sync")
	if err != nil {
		return err
	}
	keys, err := newKeys(med, benchKeySpread)
	if err != nil {
		return err
	}
	bs := store.NewBufferedStore(med, benchOptions())

	rounds := benchOps / benchKeySpread
	if rounds == 0 {
		rounds = 1
	}
	for r := 0; r < rounds; r++ {
		for i, k := range keys {
			if err := bs.Set([]*medium.Object{k}, []chain.Value{chain.Scalar(float64(r + i))}); err != nil {
				return err
			}
		}
		timer.Time(func() {
			if err := bs.Sync(); err != nil {
				log.Printf("(sync) - error flushing: %v", err)
			}
		})
	}
	return nil
}

func benchGetCold(timer metrics.Timer) error {
	med, err := util.OpenMedium("bench-get-cold")
	if err != nil {
		return err
	}
	keys, err := newKeys(med, benchKeySpread)
	if err != nil {
		return err
	}

	// persist one value per key first
	warm := store.NewBufferedStore(med, benchOptions())
	for i, k := range keys {
		if err := warm.Set([]*medium.Object{k}, []chain.Value{chain.Scalar(float64(i))}); err != nil {
			return err
		}
	}
	if err := warm.Sync(); err != nil {
		return err
	}

	// a fresh store per round, so every lookup pays the medium round-trip
	rounds := benchOps / benchKeySpread
	if rounds == 0 {
		rounds = 1
	}
	for r := 0; r < rounds; r++ {
		bs := store.NewBufferedStore(med, benchOptions())
		for _, k := range keys {
			key := k
			timer.Time(func() {
				if _, err := bs.Get([]*medium.Object{key}); err != nil {
					log.Printf("(get-cold) - error getting key: %v", err)
				}
			})
		}
	}
	return nil
}

func benchGetHot(timer metrics.Timer) error {
	med, err := util.OpenMedium("bench-get-hot")
	if err != nil {
		return err
	}
	keys, err := newKeys(med, benchKeySpread)
	if err != nil {
		return err
	}
	bs := store.NewBufferedStore(med, benchOptions())

	// warm the cache layer
	for i, k := range keys {
		if err := bs.Set([]*medium.Object{k}, []chain.Value{chain.Scalar(float64(i))}); err != nil {
			return err
		}
	}

	for i := 0; i < benchOps; i++ {
		k := keys[i%len(keys)]
		timer.Time(func() {
			if _, err := bs.Get([]*medium.Object{k}); err != nil {
				log.Printf("(get-hot) - error getting key: %v", err)
			}
		})
	}
	return nil
}

func benchLRUChurn(timer metrics.Timer) error {
	capacity := benchCacheCapacity
	if capacity <= 0 {
		capacity = benchKeySpread / 2
		if capacity == 0 {
			capacity = 1
		}
	}

	compute := chain.NewSingleCompute(func(key string) (chain.Value, error) {
		return chain.Scalar(float64(len(key))), nil
	})
	lru := chain.NewLRULink[string](capacity, compute)

	// a working set twice the capacity keeps the cache churning
	workingSet := make([]string, 2*capacity)
	for i := range workingSet {
		workingSet[i] = fmt.Sprintf("bench-lru-%d", i)
	}

	for i := 0; i < benchOps; i++ {
		k := workingSet[i%len(workingSet)]
		timer.Time(func() {
			if _, err := lru.Get([]string{k}); err != nil {
				log.Printf("(lru-churn) - error getting key: %v", err)
			}
		})
	}
	return nil
}

func benchMultiGet(timer metrics.Timer) error {
	media := make(map[medium.Handle]medium.Medium, benchDestinations)
	scope := medium.NewObject()
	for d := 0; d < benchDestinations; d++ {
		med, err := util.OpenMedium(fmt.Sprintf("bench-multi-%d", d))
		if err != nil {
			return err
		}
		media[med.Handle()] = med
		if err := scope.Bind(med.Handle(), 0); err != nil {
			return err
		}
	}
	provider := func(h medium.Handle) (medium.Medium, error) {
		med, ok := media[h]
		if !ok {
			return nil, fmt.Errorf("unknown destination %d", h)
		}
		return med, nil
	}

	keys := make([]*medium.Object, benchKeySpread)
	for i := range keys {
		keys[i] = medium.NewObject()
		for h := range media {
			if err := keys[i].Bind(h, uint64(i)); err != nil {
				return err
			}
		}
	}

	ms, err := store.NewMultiStore[*medium.Object](scope, provider, benchOptions())
	if err != nil {
		return err
	}

	// persist one value per key in every destination
	for i, k := range keys {
		if err := ms.Set([]*medium.Object{k}, []chain.Value{chain.Scalar(float64(i))}); err != nil {
			return err
		}
	}
	if err := ms.Sync(); err != nil {
		return err
	}

	for i := 0; i < benchOps; i++ {
		k := keys[i%len(keys)]
		timer.Time(func() {
			if _, err := ms.Get([]*medium.Object{k}); err != nil {
				log.Printf("(multi-get) - error getting key: %v", err)
			}
		})
	}
	return nil
}

// benchChainGet runs the full layered composition: duplicate collapsing in
// front of a bounded cache in front of the fan-out store.
func benchChainGet(timer metrics.Timer) error {
	media := make(map[medium.Handle]medium.Medium, benchDestinations)
	scope := medium.NewObject()
	for d := 0; d < benchDestinations; d++ {
		med, err := util.OpenMedium(fmt.Sprintf("bench-chain-%d", d))
		if err != nil {
			return err
		}
		media[med.Handle()] = med
		if err := scope.Bind(med.Handle(), 0); err != nil {
			return err
		}
	}
	provider := func(h medium.Handle) (medium.Medium, error) {
		med, ok := media[h]
		if !ok {
			return nil, fmt.Errorf("unknown destination %d", h)
		}
		return med, nil
	}

	keys := make([]*medium.Object, benchKeySpread)
	for i := range keys {
		keys[i] = medium.NewObject()
		for h := range media {
			if err := keys[i].Bind(h, uint64(i)); err != nil {
				return err
			}
		}
	}

	ms, err := store.NewMultiStore[*medium.Object](scope, provider, benchOptions())
	if err != nil {
		return err
	}
	for i, k := range keys {
		if err := ms.Set([]*medium.Object{k}, []chain.Value{chain.Scalar(float64(i))}); err != nil {
			return err
		}
	}
	if err := ms.Sync(); err != nil {
		return err
	}

	capacity := benchCacheCapacity
	if capacity <= 0 {
		capacity = benchKeySpread
	}
	lru := chain.NewLRULink[*medium.Object](capacity, ms)
	top := chain.NewDistinct[*medium.Object](lru)

	// batches carry duplicates, so the collapsing layer earns its keep
	for i := 0; i < benchOps; i++ {
		a := keys[i%len(keys)]
		b := keys[(i+1)%len(keys)]
		batch := []*medium.Object{a, b, a}
		timer.Time(func() {
			if _, err := top.Get(batch); err != nil {
				log.Printf("(chain-get) - error getting batch: %v", err)
			}
		})
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	snap := timer.Snapshot()
	if snap.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	mean := snap.Mean()
	if mean < 1 {
		mean = 1 // prevent division by zero
	}
	opsPerSec := 1e9 / mean

	fmt.Printf("%-20s%.0fns/op\tp95 %.0fns\tp99 %.0fns\t%.0f ops/sec\n",
		test, mean, snap.Percentile(0.95), snap.Percentile(0.99), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "P99Ns", "OpsPerSec", "Skipped",
		"Engine", "Values", "Dim",
		"Keys Count", "CacheCapacity", "BufferSize", "Destinations",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	var writeErr error
	registry.Each(func(test string, i interface{}) {
		if writeErr != nil {
			return
		}
		timer, ok := i.(metrics.Timer)
		if !ok {
			return
		}
		snap := timer.Snapshot()

		var meanNs, opsPerSec float64
		var skipped string
		if snap.Count() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			meanNs = snap.Mean()
			if meanNs < 1 {
				meanNs = 1
			}
			opsPerSec = 1e9 / meanNs
		}

		row := []string{
			test,
			strconv.FormatInt(snap.Count(), 10),
			fmt.Sprintf("%.0f", meanNs),
			fmt.Sprintf("%.0f", snap.Percentile(0.95)),
			fmt.Sprintf("%.0f", snap.Percentile(0.99)),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			viper.GetString("engine"),
			strconv.Itoa(viper.GetInt("values")),
			strconv.Itoa(viper.GetInt("dim")),
			strconv.Itoa(benchKeySpread),
			strconv.Itoa(benchCacheCapacity),
			strconv.Itoa(benchBufferSize),
			strconv.Itoa(benchDestinations),
		}

		if err := writer.Write(row); err != nil {
			writeErr = fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	})

	return writeErr
}
