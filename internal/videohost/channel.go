package videohost

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/youtube/v3"

	"github.com/tubestudio/backend/internal/models"
)

// ErrNoChannel indicates the authenticated account owns no channel.
var ErrNoChannel = errors.New("no channel for authenticated user")

// Channels reads channel details for the authenticated user.
type Channels struct{}

// Info returns the authenticated user's channel summary.
func (Channels) Info(ctx context.Context, svc *youtube.Service) (models.Channel, error) {
	resp, err := svc.Channels.List([]string{"id", "snippet", "statistics"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return models.Channel{}, fmt.Errorf("fetch channel info: %w", err)
	}
	if len(resp.Items) == 0 {
		return models.Channel{}, ErrNoChannel
	}

	channel := resp.Items[0]
	out := models.Channel{ID: channel.Id}
	if channel.Snippet != nil {
		out.Title = channel.Snippet.Title
		out.Description = channel.Snippet.Description
		out.Thumbnail = defaultThumbnail(channel.Snippet.Thumbnails)
	}
	if channel.Statistics != nil {
		out.SubscriberCount = channel.Statistics.SubscriberCount
		out.VideoCount = channel.Statistics.VideoCount
		out.ViewCount = channel.Statistics.ViewCount
	}
	return out, nil
}
