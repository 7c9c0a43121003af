// Package confloader provides the configuration loading mechanism.
//
// It uses koanf to merge several sources into one flat key/value set.
// Keys are redis.conf names such as port or proto-max-bulk-len.
//
// Priority (highest to lowest):
//
//  1. --key value command-line overrides
//  2. Environment variables (KV_PROTO_MAX_BULK_LEN=1mb)
//  3. Lines read from stdin when the command line ends in "-"
//  4. Configuration file (redis.conf style, or YAML for .yaml/.yml)
//  5. Default values
//
// A Watcher reports configuration file changes so the server can Reload.
package confloader
