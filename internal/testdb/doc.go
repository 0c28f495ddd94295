//go:build integration

// Package testdb provides database helpers for integration tests.
//
// Each test runs in its own transaction that is rolled back when the test
// finishes, so tests can share one schema and run in parallel:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        accounts := postgres.NewPostgresAccountStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped when ESSAYLAB_TEST_DB_URL and DATABASE_URL are unset.
package testdb
