// Command kv-cli is an interactive and one-shot client for kv-server.
//
//	kv-cli [-h host] [-p port] [--format raw|json|yaml] [command [arg...]]
package main
