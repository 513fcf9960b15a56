package service

import (
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"

	"VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/utils"
)

func (s *UserService) CurrentUser(userID int64) (compose.Document, error) {
	return s.self(userID)
}

func (s *UserService) ChangePassword(userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return errno.ParamErr.WithMessage("old and new password are required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := db.GetUserByID(s.ctx, userID)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(oldPassword, user.Password) {
		return errno.ParamErr.WithMessage("invalid old password")
	}
	hashed, err := utils.Crypt(newPassword)
	if err != nil {
		return errors.WithMessage(err, "Password fail to crypt")
	}
	return db.UpdateUser(s.ctx, userID, map[string]interface{}{"password": hashed})
}

func (s *UserService) UpdateAccount(userID int64, fullname, email string) (compose.Document, error) {
	fullname, email = strings.TrimSpace(fullname), utils.Normalize(email)
	if fullname == "" || email == "" {
		return nil, errno.ParamErr.WithMessage("fullname and email are required")
	}
	if err := validateFullname(fullname); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	taken, err := db.ExistsUser(s.ctx, "", email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errno.UserAlreadyExistErr.WithMessage("email is already in use")
	}
	if err = db.UpdateUser(s.ctx, userID, map[string]interface{}{"fullname": fullname, "email": email}); err != nil {
		return nil, err
	}
	return s.self(userID)
}

func (s *UserService) UpdateAvatar(userID int64, file *oss.Upload) (compose.Document, error) {
	return s.replaceImage(userID, file, constants.AvatarPrefix, "avatar", "avatar_key")
}

func (s *UserService) UpdateCoverImage(userID int64, file *oss.Upload) (compose.Document, error) {
	return s.replaceImage(userID, file, constants.CoverPrefix, "cover_image", "cover_image_key")
}

// replaceImage uploads the new image, points the user at it and then
// removes the previous object.
func (s *UserService) replaceImage(userID int64, file *oss.Upload, prefix, urlColumn, keyColumn string) (compose.Document, error) {
	if file == nil {
		return nil, errno.ParamErr.WithMessage(urlColumn + " file is missing")
	}
	user, err := db.GetUserByID(s.ctx, userID)
	if err != nil {
		return nil, err
	}
	key, url, err := oss.PutImage(s.ctx, s.d.Storage, constants.AvatarBucket, objectName(prefix, userID), file)
	if err != nil {
		return nil, errors.WithMessage(err, "upload "+urlColumn+" failed")
	}
	if err = db.UpdateUser(s.ctx, userID, map[string]interface{}{urlColumn: url, keyColumn: key}); err != nil {
		if derr := s.d.Storage.Delete(s.ctx, key); derr != nil {
			hlog.CtxWarnf(s.ctx, "remove orphan object %s: %v", key, derr)
		}
		return nil, err
	}
	old := user.AvatarKey
	if keyColumn == "cover_image_key" {
		old = user.CoverImageKey
	}
	if old != "" && old != key {
		if err = s.d.Storage.Delete(s.ctx, old); err != nil {
			hlog.CtxWarnf(s.ctx, "remove replaced object %s: %v", old, err)
		}
	}
	return s.self(userID)
}
