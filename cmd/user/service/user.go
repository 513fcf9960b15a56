package service

import (
	"context"
	"strconv"
	"strings"

	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

type UserService struct {
	ctx context.Context
	d   *deps.Deps
}

func NewUserService(ctx context.Context, d *deps.Deps) *UserService {
	return &UserService{ctx: ctx, d: d}
}

// self composes the signed-in user's own view.
func (s *UserService) self(userID int64) (compose.Document, error) {
	return s.d.Composer.ComposeOne(s.ctx, constants.UserTableName, compose.Filter{compose.Eq("id", userID)}, userID, profiles.UserSelf)
}

func validateUsername(username string) error {
	if n := len(username); n < 3 || n > 13 {
		return errno.ParamErr.WithMessage("username must be 3 to 13 characters")
	}
	if strings.ContainsAny(username, " /\t\n") {
		return errno.ParamErr.WithMessage("username must not contain spaces or slashes")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 5 {
		return errno.ParamErr.WithMessage("password must be at least 5 characters")
	}
	return nil
}

func validateFullname(fullname string) error {
	if len(strings.TrimSpace(fullname)) < 5 {
		return errno.ParamErr.WithMessage("fullname must be at least 5 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if !utils.IsEmail(email) {
		return errno.ParamErr.WithMessage("email is not valid")
	}
	return nil
}

func objectName(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10) + "-" + strconv.FormatInt(utils.NextID(), 36)
}
