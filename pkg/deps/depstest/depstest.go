// Package depstest builds service dependencies against a real MySQL for
// integration tests. Tests are skipped unless VIDEOTUBE_MYSQL_DSN is set.
package depstest

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/cache"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/oss"
)

const DSNEnv = "VIDEOTUBE_MYSQL_DSN"

// Open connects to the test database and returns dependencies backed by
// in-process storage, locks and token revocation.
func Open(t *testing.T) (*gorm.DB, *deps.Deps) {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if testing.Short() || dsn == "" {
		t.Skip(DSNEnv + " not set")
	}
	db, err := database.Open(database.Options{DSN: dsn})
	require.NoError(t, err)
	src, err := database.NewSource(db, model.All()...)
	require.NoError(t, err)
	tokens, err := jwt.New(jwt.Options{
		AccessSecret:  "test-access",
		AccessTTL:     time.Hour,
		RefreshSecret: "test-refresh",
		RefreshTTL:    time.Hour,
	}, cache.NewMemoryRevoker())
	require.NoError(t, err)
	return db, &deps.Deps{
		Composer: compose.New(src),
		Storage:  oss.NewMemory("http://cdn.test"),
		Locker:   cache.NewLocalLocker(),
		Tokens:   tokens,
		TempDir:  t.TempDir(),
	}
}
