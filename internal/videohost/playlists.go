package videohost

import (
	"context"
	"fmt"

	"google.golang.org/api/youtube/v3"

	"github.com/tubestudio/backend/internal/models"
)

// maxPageSize is the host API's hard page-size ceiling for list calls.
const maxPageSize = 50

// Playlists performs playlist operations against the video host. List
// operations follow the host's page-token convention and accumulate all
// pages before returning; callers never see raw pages.
type Playlists struct{}

// List returns every playlist owned by the authenticated channel.
func (Playlists) List(ctx context.Context, svc *youtube.Service) ([]models.Playlist, error) {
	var out []models.Playlist

	pageToken := ""
	for {
		call := svc.Playlists.List([]string{"snippet", "status", "contentDetails"}).
			Mine(true).
			MaxResults(maxPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list playlists: %w", err)
		}

		for _, item := range resp.Items {
			out = append(out, toPlaylist(item))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return out, nil
}

// Create creates a new playlist with the given title, description, and
// privacy status. Unknown privacy values collapse to the default.
func (Playlists) Create(ctx context.Context, svc *youtube.Service, title, description, privacy string) (models.Playlist, error) {
	playlist := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{
			PrivacyStatus: NormalizePrivacy(privacy),
		},
	}

	created, err := svc.Playlists.Insert([]string{"snippet", "status"}, playlist).Context(ctx).Do()
	if err != nil {
		return models.Playlist{}, fmt.Errorf("create playlist %q: %w", title, err)
	}
	return toPlaylist(created), nil
}

// Items returns every video in the given playlist, in playlist order.
func (Playlists) Items(ctx context.Context, svc *youtube.Service, playlistID string) ([]models.PlaylistItem, error) {
	var out []models.PlaylistItem

	pageToken := ""
	for {
		call := svc.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(maxPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list items of playlist %s: %w", playlistID, err)
		}

		for _, item := range resp.Items {
			out = append(out, toPlaylistItem(item))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return out, nil
}

// AddVideo inserts a video into the playlist and returns the new playlist
// item ID.
func (Playlists) AddVideo(ctx context.Context, svc *youtube.Service, playlistID, videoID string) (string, error) {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}

	inserted, err := svc.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("add video %s to playlist %s: %w", videoID, playlistID, err)
	}
	return inserted.Id, nil
}

// Delete removes the playlist.
func (Playlists) Delete(ctx context.Context, svc *youtube.Service, playlistID string) error {
	if err := svc.Playlists.Delete(playlistID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete playlist %s: %w", playlistID, err)
	}
	return nil
}

func toPlaylist(p *youtube.Playlist) models.Playlist {
	out := models.Playlist{ID: p.Id}
	if p.Snippet != nil {
		out.Title = p.Snippet.Title
		out.Description = p.Snippet.Description
		out.CreatedAt = p.Snippet.PublishedAt
		out.Thumbnail = defaultThumbnail(p.Snippet.Thumbnails)
	}
	if p.Status != nil {
		out.PrivacyStatus = p.Status.PrivacyStatus
	}
	if p.ContentDetails != nil {
		out.ItemCount = p.ContentDetails.ItemCount
	}
	return out
}

func toPlaylistItem(item *youtube.PlaylistItem) models.PlaylistItem {
	out := models.PlaylistItem{}
	if item.Snippet == nil {
		return out
	}
	out.Title = item.Snippet.Title
	out.Description = item.Snippet.Description
	out.Position = item.Snippet.Position
	out.AddedAt = item.Snippet.PublishedAt
	out.Thumbnail = defaultThumbnail(item.Snippet.Thumbnails)
	if item.Snippet.ResourceId != nil {
		out.VideoID = item.Snippet.ResourceId.VideoId
	}
	return out
}

func defaultThumbnail(details *youtube.ThumbnailDetails) string {
	if details == nil || details.Default == nil {
		return ""
	}
	return details.Default.Url
}
