// Package deps carries the infrastructure every service is built on.
package deps

import (
	"context"

	"VideoTube.com/pkg/cache"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/oss"
)

// VideoDoc is what the search index keeps of a video.
type VideoDoc struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
	CreatedAt   int64  `json:"created_at"`
}

// Searcher is the full text index over videos.
type Searcher interface {
	Index(ctx context.Context, doc VideoDoc) error
	Delete(ctx context.Context, id int64) error
	SearchIDs(ctx context.Context, query string, limit int) ([]int64, error)
}

type Deps struct {
	Composer  *compose.Composer
	Storage   oss.Storage
	Publisher mq.Publisher
	Locker    cache.Locker
	Tokens    *jwt.Manager
	// Search is nil when no index is configured.
	Search  Searcher
	TempDir string
}
