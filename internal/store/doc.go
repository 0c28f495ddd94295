// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Postgres implementations live in
// internal/platform/postgres; the guest trial store also has a Redis
// implementation in internal/platform/redis.
package store
