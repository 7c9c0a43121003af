package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"testing"

	"github.com/kylediaz/kv/internal/storage/memory"
)

// KeyCounts defines the table sizes for benchmarking.
var KeyCounts = []int{10000, 100000, 1000000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 10000, 100000}

func keyName(i int) string {
	return "key:" + strconv.Itoa(i)
}

// prefillStore stores count keys with short values.
func prefillStore(b *testing.B, store *memory.Store, count int) {
	b.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		if _, err := store.Execute(ctx, []string{"SET", keyName(i), "value-" + strconv.Itoa(i)}); err != nil {
			b.Fatalf("SET failed: %v", err)
		}
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs benchFn once per table size.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
