// Package postgres provides PostgreSQL implementations of the store
// interfaces: accounts and their usage counters, invite codes and
// redemptions, guest trials, vocabulary items and flashcards.
//
// It also owns the embedded goose migrations and the mapping from pgx
// errors to store sentinel errors. Every store accepts a store.DBTX so the
// same code runs against a pool or inside a transaction via WithTx.
package postgres
