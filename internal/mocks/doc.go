// Package mocks provides centralized mock implementations for testing.
//
// Store mocks keep their state in memory and behave like the Postgres stores
// (conditional resets, insert-if-absent claims, conflict-skipping inserts).
// Every method can be overridden through a function field to inject
// failures. WithTx returns the receiver, so a test can pair a mock store with
// a sqlmock database and still drive code that runs inside a transaction.
//
// Usage:
//
//	import "github.com/phrazzld/essaylab-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    accounts := mocks.NewMockAccountStore()
//	    accounts.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
//	        return nil, store.ErrUnavailable
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
