// Package cmap provides a sharded concurrent map.
//
// Keys are spread over a power-of-two number of shards, each guarded by
// its own RWMutex, so unrelated keys do not contend. The server uses it
// for the live connection registry, which is written on every accept and
// close and read by Server.Clients and Shutdown.
//
//	m := cmap.New[string, *Conn]()
//	m.Set(id, c)
//	c, ok := m.Get(id)
//
// Values and Count take each shard's read lock in turn, so they see a
// consistent view of one shard at a time but not of the whole map.
package cmap
