// Command kv-server serves an in-memory key-value store over RESP2.
//
//	kv-server [config-file] [--key value ...] [-]
//
// The config file uses redis.conf syntax, or YAML when it ends in .yaml.
// A trailing "-" reads more config lines from stdin. KV_* environment
// variables override the file and --key flags override everything.
// The file is watched and changed entries are applied at runtime.
package main
