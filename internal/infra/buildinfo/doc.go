// Package buildinfo exposes build-time version information.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/kylediaz/kv/internal/infra/buildinfo.Version=v1.0.0"
//
// Unset values fall back to what the Go toolchain embedded in the
// binary (module version, VCS revision and time).
package buildinfo
