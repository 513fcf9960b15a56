package service

import (
	"github.com/pkg/errors"

	"VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/utils"
)

type LoginRequest struct {
	Username string
	Email    string
	Password string
}

type Session struct {
	User         compose.Document `json:"user,omitempty"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

// Login checks the credentials and opens a session.
func (s *UserService) Login(req *LoginRequest) (*Session, error) {
	username, email := utils.Normalize(req.Username), utils.Normalize(req.Email)
	if username == "" && email == "" {
		return nil, errno.ParamErr.WithMessage("username or email is required")
	}
	if req.Password == "" {
		return nil, errno.ParamErr.WithMessage("password is required")
	}
	user, err := db.GetUserByLogin(s.ctx, username, email)
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, errno.AuthorizationFailedErr.WithMessage("invalid user credentials")
	}
	session, err := s.issue(user.ID)
	if err != nil {
		return nil, err
	}
	if session.User, err = s.self(user.ID); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *UserService) issue(userID int64) (*Session, error) {
	access, _, err := s.d.Tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.d.Tokens.IssueRefresh(userID)
	if err != nil {
		return nil, errors.Wrap(err, "sign refresh token")
	}
	if err = db.SetRefreshToken(s.ctx, userID, refresh); err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout drops the stored refresh token. The caller revokes the access token.
func (s *UserService) Logout(userID int64) error {
	return db.SetRefreshToken(s.ctx, userID, "")
}

// Refresh rotates the token pair. The presented token must be the one
// stored for the user, so a rotated token cannot be replayed.
func (s *UserService) Refresh(token string) (*Session, error) {
	if token == "" {
		return nil, errno.TokenInvalidErr.WithMessage("refresh token is required")
	}
	userID, err := s.d.Tokens.ParseRefresh(token)
	if err != nil {
		return nil, err
	}
	user, err := db.GetUserByID(s.ctx, userID)
	if errors.Is(err, errno.NotFoundErr) {
		return nil, errno.TokenInvalidErr
	}
	if err != nil {
		return nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != token {
		return nil, errno.TokenInvalidErr.WithMessage("refresh token is expired or used")
	}
	return s.issue(userID)
}
