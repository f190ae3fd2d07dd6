package fixture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/tools-fixture/cloudant/credential"
)

// SetUpT sets up the database of the given credential for the duration of a test, fatally terminating the test if it
// can't be created. The database is deleted once the test (and its subtests) complete.
func SetUpT(t testing.TB, manager *Manager, cred credential.Credential) {
	t.Helper()

	require.NoError(t, manager.SetUp(context.Background(), cred), "failed to set up database %s", cred.DBName)

	t.Cleanup(func() { manager.UnsetUp(context.Background(), cred) })
}
