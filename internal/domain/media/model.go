package media

import (
	"context"
	"time"
)

type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	SourceName  string
	SourceURL   string
}

type Video struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	ThumbnailURL string
	PublishedAt  time.Time
}

type NewsSearcher interface {
	SearchNews(ctx context.Context, query string, max int) ([]Article, error)
}

type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, max int) ([]Video, error)
}
