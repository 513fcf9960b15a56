package service

import (
	"context"
	"strings"

	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
)

// maxContentLength bounds comment and tweet bodies, in bytes.
const maxContentLength = 5000

type InteractionService struct {
	ctx context.Context
	d   *deps.Deps
}

func NewInteractionService(ctx context.Context, d *deps.Deps) *InteractionService {
	return &InteractionService{ctx: ctx, d: d}
}

func checkContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errno.ParamErr.WithMessage("content is required")
	}
	if len(content) > maxContentLength {
		return "", errno.ParamErr.WithMessage("content is too long")
	}
	return content, nil
}
