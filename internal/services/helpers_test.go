package services

import (
	"testing"

	"gorm.io/gorm"

	"moneta/internal/testutil"
)

// testFixture bundles the per-test database handle.
type testFixture struct {
	db *gorm.DB
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	return &testFixture{db: testutil.SetupTestDB(t)}
}

func (f *testFixture) teardown(t *testing.T) {
	t.Helper()
	testutil.TeardownTestDB(t, f.db)
}
