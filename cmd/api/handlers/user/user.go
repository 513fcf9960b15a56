package handlers

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/user/service"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refresh_token"
)

type LoginParam struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshParam struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type ChangePasswordParam struct {
	OldPassword string `json:"old_password" form:"old_password"`
	NewPassword string `json:"new_password" form:"new_password"`
}

type UpdateAccountParam struct {
	Fullname string `json:"fullname" form:"fullname"`
	Email    string `json:"email" form:"email"`
}

func setSessionCookies(c *app.RequestContext, s *service.Session) {
	c.SetCookie(accessCookie, s.AccessToken, 0, "/", "", protocol.CookieSameSiteLaxMode, true, true)
	c.SetCookie(refreshCookie, s.RefreshToken, 0, "/", "", protocol.CookieSameSiteLaxMode, true, true)
}

func Register(ctx context.Context, c *app.RequestContext) {
	avatar, af, err := common.Upload(c, "avatar", common.Limits.Image)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	cover, cf, err := common.Upload(c, "coverImage", common.Limits.Image)
	defer common.Close(af, cf)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	user, err := service.NewUserService(ctx, common.Deps).Register(&service.RegisterRequest{
		Fullname: string(c.FormValue("fullname")),
		Username: string(c.FormValue("username")),
		Email:    string(c.FormValue("email")),
		Password: string(c.FormValue("password")),
		Avatar:   avatar,
		Cover:    cover,
	})
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, response.Response{Code: errno.SuccessCode, Message: "User registered successfully", Data: user})
}

func Login(ctx context.Context, c *app.RequestContext) {
	var param LoginParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	session, err := service.NewUserService(ctx, common.Deps).Login(&service.LoginRequest{
		Username: param.Username,
		Email:    param.Email,
		Password: param.Password,
	})
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	setSessionCookies(c, session)
	response.SendResponse(c, nil, session)
}

func Logout(ctx context.Context, c *app.RequestContext) {
	if err := service.NewUserService(ctx, common.Deps).Logout(jwt.ViewerID(c)); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	if err := common.Deps.Tokens.Revoke(ctx, c); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	c.SetCookie(accessCookie, "", -1, "/", "", protocol.CookieSameSiteLaxMode, true, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", protocol.CookieSameSiteLaxMode, true, true)
	response.SendResponse(c, nil, map[string]interface{}{})
}

func RefreshToken(ctx context.Context, c *app.RequestContext) {
	token := string(c.Cookie(refreshCookie))
	if token == "" {
		var param RefreshParam
		if err := c.Bind(&param); err != nil {
			response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
			return
		}
		token = param.RefreshToken
	}
	session, err := service.NewUserService(ctx, common.Deps).Refresh(token)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	setSessionCookies(c, session)
	response.SendResponse(c, nil, session)
}

func ChangePassword(ctx context.Context, c *app.RequestContext) {
	var param ChangePasswordParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	err := service.NewUserService(ctx, common.Deps).ChangePassword(jwt.ViewerID(c), param.OldPassword, param.NewPassword)
	response.SendResponse(c, err, map[string]interface{}{})
}

func CurrentUser(ctx context.Context, c *app.RequestContext) {
	user, err := service.NewUserService(ctx, common.Deps).CurrentUser(jwt.ViewerID(c))
	response.SendResponse(c, err, user)
}

func UpdateAccount(ctx context.Context, c *app.RequestContext) {
	var param UpdateAccountParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	user, err := service.NewUserService(ctx, common.Deps).UpdateAccount(jwt.ViewerID(c), param.Fullname, param.Email)
	response.SendResponse(c, err, user)
}

func UpdateAvatar(ctx context.Context, c *app.RequestContext) {
	file, f, err := common.Upload(c, "avatar", common.Limits.Image)
	defer common.Close(f)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	user, err := service.NewUserService(ctx, common.Deps).UpdateAvatar(jwt.ViewerID(c), file)
	response.SendResponse(c, err, user)
}

func UpdateCoverImage(ctx context.Context, c *app.RequestContext) {
	file, f, err := common.Upload(c, "coverImage", common.Limits.Image)
	defer common.Close(f)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	user, err := service.NewUserService(ctx, common.Deps).UpdateCoverImage(jwt.ViewerID(c), file)
	response.SendResponse(c, err, user)
}

func Channel(ctx context.Context, c *app.RequestContext) {
	channel, err := service.NewUserService(ctx, common.Deps).Channel(c.Param("username"), jwt.ViewerID(c))
	response.SendResponse(c, err, channel)
}

func WatchHistory(ctx context.Context, c *app.RequestContext) {
	history, err := service.NewUserService(ctx, common.Deps).WatchHistory(jwt.ViewerID(c))
	response.SendResponse(c, err, history)
}
