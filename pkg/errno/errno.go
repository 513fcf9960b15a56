package errno

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	SuccessCode                = 0
	ServiceErrCode             = 10001
	ParamErrCode               = 10002
	NotFoundErrCode            = 10003
	UpstreamErrCode            = 10004
	AuthorizationFailedErrCode = 10005
	TokenInvalidErrCode        = 10006
	ForbiddenErrCode           = 10007
	UserAlreadyExistErrCode    = 10008
	TooManyRequestsErrCode     = 10009
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
	cause   error
}

func (e ErrNo) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("err_code=%d, err_msg=%s: %v", e.ErrCode, e.ErrMsg, e.cause)
	}
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

// Unwrap exposes the infrastructure error an UpstreamErr was raised for.
func (e ErrNo) Unwrap() error {
	return e.cause
}

// Is reports a match on the error code, so errors.Is(err, errno.NotFoundErr)
// holds after WithMessage or WithCause.
func (e ErrNo) Is(target error) bool {
	var t ErrNo
	if !errors.As(target, &t) {
		return false
	}
	return e.ErrCode == t.ErrCode
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{ErrCode: code, ErrMsg: msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

func (e ErrNo) WithCause(err error) ErrNo {
	e.cause = err
	return e
}

var (
	Success                = NewErrNo(SuccessCode, "Success")
	ServiceErr             = NewErrNo(ServiceErrCode, "Service is unable to start successfully")
	ParamErr               = NewErrNo(ParamErrCode, "Wrong Parameter has been given")
	NotFoundErr            = NewErrNo(NotFoundErrCode, "Resource not found")
	UpstreamErr            = NewErrNo(UpstreamErrCode, "Upstream source failed")
	AuthorizationFailedErr = NewErrNo(AuthorizationFailedErrCode, "Authorization failed")
	TokenInvalidErr        = NewErrNo(TokenInvalidErrCode, "Token is invalid or expired")
	ForbiddenErr           = NewErrNo(ForbiddenErrCode, "You are not the owner of this resource")
	UserAlreadyExistErr    = NewErrNo(UserAlreadyExistErrCode, "User already exists")
	TooManyRequestsErr     = NewErrNo(TooManyRequestsErrCode, "Too many requests")
)

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}

// HTTPStatus maps an error code onto the status the API answers with.
func HTTPStatus(e ErrNo) int {
	switch e.ErrCode {
	case SuccessCode:
		return http.StatusOK
	case ParamErrCode:
		return http.StatusBadRequest
	case NotFoundErrCode:
		return http.StatusNotFound
	case UpstreamErrCode:
		return http.StatusBadGateway
	case AuthorizationFailedErrCode, TokenInvalidErrCode:
		return http.StatusUnauthorized
	case ForbiddenErrCode:
		return http.StatusForbidden
	case UserAlreadyExistErrCode:
		return http.StatusConflict
	case TooManyRequestsErrCode:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
