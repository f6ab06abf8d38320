// Package testdb provides helpers for tests that need a real PostgreSQL database.
//
// Tests call GetTestDBWithT to obtain a migrated connection. The test is skipped
// when no database URL is configured, so the same test files run unchanged on a
// developer machine without PostgreSQL and in CI with one.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.ResetTasks(t, db)
//	    taskStore := postgres.NewTaskStore(db, nil)
//	    ...
//	}
//
// # Environment Variables
//
// - DATABASE_URL: Primary connection string
// - TASKAPI_TEST_DB_URL: Alternative connection string
// - TASKAPI_DATABASE_URL: Fallback connection string
package testdb
