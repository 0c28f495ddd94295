// Package domain contains the core entities of the usage-accounting and
// review-scheduling core: accounts and their counters, invite codes and
// redemptions, guest trials, vocabulary items and flashcards. It has no
// knowledge of storage or transport.
package domain
