// Package mocks provides shared test doubles for the planner's collaborators.
//
// The store mocks share a MemoryDB so that a subject, block and user store
// handed out together behave like tables of one database. Every mock exposes
// function fields that replace the default behavior when set, and records
// calls for assertions:
//
//	db := mocks.NewMemoryDB()
//	tx := mocks.NewMockTransactor(db)
//	blocks := tx.Stores.Blocks.(*mocks.MockBlockStore)
//	blocks.SetCompletionFn = func(context.Context, uuid.UUID, bool, *time.Time) error {
//	    return errors.New("boom")
//	}
//
// TestifyMock* types are testify/mock based for tests that prefer
// expectation-style assertions.
package mocks
