// Package cache provides a small in-memory cache with per-entry TTLs.
//
// Entries expire lazily: an expired entry is dropped when a lookup touches
// it, or in bulk via CleanupExpired. The cache is safe for concurrent use.
package cache
