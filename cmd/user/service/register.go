package service

import (
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/utils"
)

type RegisterRequest struct {
	Fullname string
	Username string
	Email    string
	Password string
	Avatar   *oss.Upload
	Cover    *oss.Upload
}

func (r *RegisterRequest) normalize() {
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Username = utils.Normalize(r.Username)
	r.Email = utils.Normalize(r.Email)
}

func (r *RegisterRequest) validate() error {
	if r.Fullname == "" || r.Username == "" || r.Email == "" || r.Password == "" {
		return errno.ParamErr.WithMessage("fullname, username, email and password are required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	if err := validateFullname(r.Fullname); err != nil {
		return err
	}
	if r.Avatar == nil {
		return errno.ParamErr.WithMessage("avatar file is required")
	}
	return nil
}

// Register creates an account and returns its composed self view.
func (s *UserService) Register(req *RegisterRequest) (compose.Document, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}
	taken, err := db.ExistsUser(s.ctx, req.Username, req.Email, 0)
	if err != nil {
		return nil, errors.WithMessage(err, "dao.ExistsUser failed")
	}
	if taken {
		return nil, errno.UserAlreadyExistErr.WithMessage("user with email or username already exists")
	}

	hashed, err := utils.Crypt(req.Password)
	if err != nil {
		return nil, errors.WithMessage(err, "Password fail to crypt")
	}

	user := &model.User{
		ID:       utils.NextID(),
		Username: req.Username,
		Email:    req.Email,
		Fullname: req.Fullname,
		Password: hashed,
	}
	var uploaded []string
	cleanup := func() {
		for _, key := range uploaded {
			if err := s.d.Storage.Delete(s.ctx, key); err != nil {
				hlog.CtxWarnf(s.ctx, "remove orphan object %s: %v", key, err)
			}
		}
	}

	user.AvatarKey, user.Avatar, err = oss.PutImage(s.ctx, s.d.Storage, constants.AvatarBucket, objectName(constants.AvatarPrefix, user.ID), req.Avatar)
	if err != nil {
		return nil, errors.WithMessage(err, "upload avatar failed")
	}
	uploaded = append(uploaded, user.AvatarKey)
	if req.Cover != nil {
		user.CoverImageKey, user.CoverImage, err = oss.PutImage(s.ctx, s.d.Storage, constants.AvatarBucket, objectName(constants.CoverPrefix, user.ID), req.Cover)
		if err != nil {
			cleanup()
			return nil, errors.WithMessage(err, "upload cover image failed")
		}
		uploaded = append(uploaded, user.CoverImageKey)
	}

	if err = db.CreateUser(s.ctx, user); err != nil {
		cleanup()
		return nil, errors.WithMessage(err, "dao.CreateUser failed")
	}
	hlog.CtxInfof(s.ctx, "user registered: id=%d username=%s", user.ID, user.Username)
	return s.self(user.ID)
}
