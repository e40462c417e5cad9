// Package benchmark wraps a command run and reports its resource usage.
// Useful when profiling builds over large isolate collections.
package benchmark

import (
	"fmt"
	"runtime"
	"time"
)

// Run executes f and prints elapsed time and memory figures around it.
func Run(label string, f func() error) error {
	fmt.Printf("[Benchmark] Running: %s\n", label)
	fmt.Println("[Benchmark] Timestamp:", time.Now().Format(time.RFC1123))
	fmt.Println("[Benchmark] Go Version:", runtime.Version())
	fmt.Printf("[Benchmark] OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	runtime.GC()
	var memStart, memEnd runtime.MemStats
	runtime.ReadMemStats(&memStart)
	start := time.Now()

	err := f()

	elapsed := time.Since(start)
	runtime.ReadMemStats(&memEnd)

	fmt.Printf("[Benchmark] Time Elapsed: %v\n", elapsed)
	fmt.Printf("[Benchmark] Memory Used: %.2f MB\n", float64(memEnd.Alloc-memStart.Alloc)/1024.0/1024.0)
	fmt.Printf("[Benchmark] Total Allocated: %.2f MB\n", float64(memEnd.TotalAlloc-memStart.TotalAlloc)/1024.0/1024.0)
	fmt.Printf("[Benchmark] GC Cycles: %d\n", memEnd.NumGC-memStart.NumGC)
	fmt.Println("[Benchmark] ----------------------------------------")
	return err
}
