package search

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VideoTube.com/pkg/deps"
)

func TestHitIDs(t *testing.T) {
	ids, err := hitIDs(&elastic.SearchHits{Hits: []*elastic.SearchHit{{Id: "12"}, {Id: "7"}}})
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 7}, ids)

	ids, err = hitIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = hitIDs(&elastic.SearchHits{Hits: []*elastic.SearchHit{{Id: "abc"}}})
	assert.Error(t, err)
}

func TestElasticAgainstServer(t *testing.T) {
	addr := os.Getenv("VIDEOTUBE_ELASTIC_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("VIDEOTUBE_ELASTIC_ADDR not set")
	}
	ctx := context.Background()
	index := "videos_test_" + time.Now().Format("20060102150405")
	e, err := NewElastic(ctx, addr, index)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = e.client.DeleteIndex(index).Do(context.Background()) })

	require.NoError(t, e.Index(ctx, deps.VideoDoc{ID: 1, Title: "gopher tutorial"}))
	require.NoError(t, e.Index(ctx, deps.VideoDoc{ID: 2, Title: "cooking pasta"}))
	_, err = e.client.Refresh(index).Do(ctx)
	require.NoError(t, err)

	ids, err := e.SearchIDs(ctx, "gopher", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	require.NoError(t, e.Delete(ctx, 1))
	require.NoError(t, e.Delete(ctx, 1))
}
