package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"VideoTube.com/cmd/relation/dal/db"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/deps"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

type RelationService struct {
	ctx context.Context
	d   *deps.Deps
}

func NewRelationService(ctx context.Context, d *deps.Deps) *RelationService {
	return &RelationService{ctx: ctx, d: d}
}

// ToggleSubscription subscribes userID to channelID or cancels the
// subscription, returning the new state.
func (s *RelationService) ToggleSubscription(userID, channelID int64) (bool, error) {
	if userID == channelID {
		return false, errno.ParamErr.WithMessage("you cannot subscribe to your own channel")
	}
	if _, err := userdb.GetUserByID(s.ctx, channelID); err != nil {
		return false, err
	}
	unlock, err := s.d.Locker.Lock(s.ctx, fmt.Sprintf("subscription:%d:%d", userID, channelID))
	if err != nil {
		return false, errno.TooManyRequestsErr.WithCause(err)
	}
	defer unlock()
	subscribed, err := db.ToggleSubscription(s.ctx, userID, channelID, utils.NextID())
	if err != nil {
		return false, errors.WithMessage(err, "dao.ToggleSubscription failed")
	}
	return subscribed, nil
}

// Subscribers pages through the users subscribed to channelID.
func (s *RelationService) Subscribers(channelID int64, page compose.PageRequest, viewerID int64) (*compose.Page, error) {
	return s.d.Composer.ComposePage(s.ctx, constants.SubscriptionTableName, compose.Filter{compose.Eq("channel_id", channelID)},
		compose.DefaultSort, page, viewerID, profiles.SubscriptionSubscribers)
}

// Channels pages through the channels subscriberID follows.
func (s *RelationService) Channels(subscriberID int64, page compose.PageRequest, viewerID int64) (*compose.Page, error) {
	return s.d.Composer.ComposePage(s.ctx, constants.SubscriptionTableName, compose.Filter{compose.Eq("subscriber_id", subscriberID)},
		compose.DefaultSort, page, viewerID, profiles.SubscriptionChannels)
}
