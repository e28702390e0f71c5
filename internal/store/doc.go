// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the planning core, so schedule generation and XP bookkeeping stay
// independent of specific database technologies.
package store
