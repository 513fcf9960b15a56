package service

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/utils"
)

type PublishRequest struct {
	Title       string
	Description string
	Video       *oss.Upload
	Thumbnail   *oss.Upload
}

func (r *PublishRequest) validate() (string, error) {
	r.Title, r.Description = strings.TrimSpace(r.Title), strings.TrimSpace(r.Description)
	if r.Title == "" || r.Description == "" {
		return "", errno.ParamErr.WithMessage("title and description are required")
	}
	if r.Video == nil {
		return "", errno.ParamErr.WithMessage("video file is required")
	}
	ext, err := oss.VideoExt(r.Video.ContentType)
	if err != nil {
		return "", errno.ParamErr.WithMessage(err.Error())
	}
	if r.Thumbnail != nil {
		if _, err = oss.ImageExt(r.Thumbnail.ContentType); err != nil {
			return "", errno.ParamErr.WithMessage(err.Error())
		}
	}
	return ext, nil
}

// Publish stores the upload, probes its duration, extracts a thumbnail when
// none was sent and creates the video row.
func (s *VideoService) Publish(ownerID int64, req *PublishRequest) (compose.Document, error) {
	ext, err := req.validate()
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp(s.d.TempDir, "upload-")
	if err != nil {
		return nil, errors.Wrap(err, "create temp dir")
	}
	defer os.RemoveAll(tmpDir)
	local := filepath.Join(tmpDir, uuid.NewString()+ext)
	if err = spool(local, req.Video.Body); err != nil {
		return nil, err
	}

	duration, err := utils.ProbeDuration(local)
	if err != nil {
		return nil, errno.ParamErr.WithMessage("video file cannot be decoded")
	}

	video := &model.Video{
		ID:          utils.NextID(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Duration:    duration,
	}
	name := strconv.FormatInt(video.ID, 10)
	var uploaded []string
	fail := func(err error) (compose.Document, error) {
		for _, key := range uploaded {
			s.removeObject(key)
		}
		return nil, err
	}

	video.VideoKey = oss.Key(constants.VideoBucket, constants.VideoPrefix, name, ext)
	if video.VideoURL, err = oss.PutFile(s.ctx, s.d.Storage, video.VideoKey, local, req.Video.ContentType); err != nil {
		return fail(errors.WithMessage(err, "upload video failed"))
	}
	uploaded = append(uploaded, video.VideoKey)

	if req.Thumbnail != nil {
		video.ThumbnailKey, video.ThumbnailURL, err = oss.PutImage(s.ctx, s.d.Storage, constants.AvatarBucket, constants.ThumbnailPrefix+name, req.Thumbnail)
	} else {
		video.ThumbnailKey, video.ThumbnailURL, err = s.extractThumbnail(local, tmpDir, name, duration)
	}
	if err != nil {
		return fail(errors.WithMessage(err, "store thumbnail failed"))
	}
	uploaded = append(uploaded, video.ThumbnailKey)

	if err = db.CreateVideo(s.ctx, video); err != nil {
		return fail(err)
	}
	hlog.CtxInfof(s.ctx, "video published: id=%d owner=%d duration=%.2fs", video.ID, ownerID, duration)
	s.index(video)
	return s.detail(video.ID, ownerID)
}

func (s *VideoService) extractThumbnail(videoPath, dir, name string, duration float64) (key, url string, err error) {
	frame, err := utils.GetVideoThumbnail(videoPath, dir, math.Min(1, duration/2))
	if err != nil {
		return "", "", err
	}
	key = oss.Key(constants.AvatarBucket, constants.ThumbnailPrefix, name, ".jpg")
	url, err = oss.PutFile(s.ctx, s.d.Storage, key, frame, "image/jpeg")
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

func spool(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
