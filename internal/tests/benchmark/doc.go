// Package benchmark holds performance benchmarks for the storage engine,
// the wire codec and the RESP server.
//
// Run with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/
package benchmark
