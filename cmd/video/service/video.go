package service

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"VideoTube.com/cmd/model"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/profiles"
)

// searchLimit caps the ids a full text query may select.
const searchLimit = 1000

var sortable = map[string]bool{
	"created_at": true,
	"views":      true,
	"duration":   true,
	"title":      true,
}

type VideoService struct {
	ctx context.Context
	d   *deps.Deps
}

func NewVideoService(ctx context.Context, d *deps.Deps) *VideoService {
	return &VideoService{ctx: ctx, d: d}
}

type ListRequest struct {
	Page     compose.PageRequest
	Query    string
	SortBy   string
	SortType string
	// UserID limits the listing to one channel.
	UserID int64
}

// List pages through videos. Unpublished videos only show up when a user
// lists their own channel.
func (s *VideoService) List(req *ListRequest, viewerID int64) (*compose.Page, error) {
	filter := compose.Filter{}
	if req.UserID > 0 {
		filter = filter.And(compose.Eq("owner_id", req.UserID))
	}
	if req.UserID == 0 || req.UserID != viewerID {
		filter = filter.And(compose.Eq("is_published", true))
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		filter = filter.And(s.queryCond(q))
	}

	order := compose.DefaultSort
	if req.SortBy != "" {
		if !sortable[req.SortBy] {
			return nil, errno.ParamErr.WithMessage("cannot sort videos by " + req.SortBy)
		}
		order.Field = req.SortBy
	}
	if req.SortType != "" {
		order.Direction = compose.ParseDirection(req.SortType)
	}
	return s.d.Composer.ComposePage(s.ctx, constants.VideoTableName, filter, order, req.Page, viewerID, profiles.VideoCard)
}

// queryCond resolves a free text query through the search index when one is
// configured and falls back to a substring match.
func (s *VideoService) queryCond(q string) compose.Cond {
	if s.d.Search != nil {
		ids, err := s.d.Search.SearchIDs(s.ctx, q, searchLimit)
		if err == nil {
			values := make([]any, len(ids))
			for i, id := range ids {
				values[i] = id
			}
			return compose.In("id", values...)
		}
		hlog.CtxWarnf(s.ctx, "search %q failed, falling back to match: %v", q, err)
	}
	return compose.Match(q, "title", "description")
}

// Detail composes one video for viewerID and then records the view. The
// returned views do not include this one.
func (s *VideoService) Detail(videoID, viewerID int64) (compose.Document, error) {
	doc, err := s.detail(videoID, viewerID)
	if err != nil {
		return nil, err
	}
	if err = db.IncrementViews(s.ctx, videoID); err != nil {
		hlog.CtxErrorf(s.ctx, "increment views of %d: %v", videoID, err)
	}
	if viewerID != compose.Anonymous {
		if err = userdb.UpsertWatchHistory(s.ctx, viewerID, videoID, time.Now()); err != nil {
			hlog.CtxErrorf(s.ctx, "record watch history of %d: %v", viewerID, err)
		}
	}
	return doc, nil
}

func (s *VideoService) detail(videoID, viewerID int64) (compose.Document, error) {
	doc, err := s.d.Composer.ComposeOne(s.ctx, constants.VideoTableName, compose.Filter{compose.Eq("id", videoID)}, viewerID, profiles.VideoDetail)
	if err != nil {
		return nil, err
	}
	owner, ok := doc.Ref("owner_id")
	if published, _ := doc["is_published"].(bool); !published && (!ok || owner != viewerID) {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	return doc, nil
}

// owned loads a video and checks that userID owns it.
func (s *VideoService) owned(videoID, userID int64) (*model.Video, error) {
	video, err := db.GetVideoByID(s.ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != userID {
		return nil, errno.ForbiddenErr
	}
	return video, nil
}

func (s *VideoService) index(v *model.Video) {
	if s.d.Search == nil {
		return
	}
	err := s.d.Search.Index(s.ctx, deps.VideoDoc{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt.Unix(),
	})
	if err != nil {
		hlog.CtxErrorf(s.ctx, "index video %d: %v", v.ID, err)
	}
}

func (s *VideoService) removeObject(key string) {
	if key == "" {
		return
	}
	if err := s.d.Storage.Delete(s.ctx, key); err != nil {
		hlog.CtxWarnf(s.ctx, "remove object %s: %v", key, err)
	}
}
