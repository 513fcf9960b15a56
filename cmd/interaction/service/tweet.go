package service

import (
	"github.com/pkg/errors"

	"VideoTube.com/cmd/interaction/dal/db"
	"VideoTube.com/cmd/model"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/profiles"
	"VideoTube.com/pkg/utils"
)

func (s *InteractionService) CreateTweet(userID int64, content string) (compose.Document, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{ID: utils.NextID(), OwnerID: userID, Content: content}
	if err = db.CreateTweet(s.ctx, tweet); err != nil {
		return nil, errors.WithMessage(err, "dao.CreateTweet failed")
	}
	return s.tweet(tweet.ID, userID)
}

func (s *InteractionService) UpdateTweet(userID, tweetID int64, content string) (compose.Document, error) {
	content, err := checkContent(content)
	if err != nil {
		return nil, err
	}
	tweet, err := db.GetTweetByID(s.ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != userID {
		return nil, errno.ForbiddenErr
	}
	if err = db.UpdateTweet(s.ctx, tweetID, content); err != nil {
		return nil, err
	}
	return s.tweet(tweetID, userID)
}

func (s *InteractionService) DeleteTweet(userID, tweetID int64) error {
	tweet, err := db.GetTweetByID(s.ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != userID {
		return errno.ForbiddenErr
	}
	if err = db.DeleteTweet(s.ctx, tweetID); err != nil {
		return err
	}
	return mq.Announce(s.ctx, s.d.Publisher, CascadeHandler{}, mq.NewContentDeletedEvent(mq.ContentTweet, tweetID, userID))
}

// UserTweets pages through the tweets of ownerID, newest first.
func (s *InteractionService) UserTweets(ownerID int64, page compose.PageRequest, viewerID int64) (*compose.Page, error) {
	if _, err := userdb.GetUserByID(s.ctx, ownerID); err != nil {
		return nil, err
	}
	return s.d.Composer.ComposePage(s.ctx, constants.TweetTableName, compose.Filter{compose.Eq("owner_id", ownerID)},
		compose.DefaultSort, page, viewerID, profiles.TweetList)
}

func (s *InteractionService) tweet(id, viewerID int64) (compose.Document, error) {
	return s.d.Composer.ComposeOne(s.ctx, constants.TweetTableName, compose.Filter{compose.Eq("id", id)}, viewerID, profiles.TweetList)
}
