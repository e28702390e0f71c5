// Package postgres provides PostgreSQL implementations of the store
// interfaces for users, subjects and study blocks. It also embeds the schema
// migrations and applies them with goose.
package postgres
