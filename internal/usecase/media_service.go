package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/riskibarqy/cricket-hub/internal/domain/media"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

const (
	defaultNewsQuery  = "cricket"
	defaultNewsMax    = 10
	maxNewsResults    = 100
	videoSearchLimit  = 5
	newsCachePrefix   = "media:news:"
	videosCachePrefix = "media:videos:"
)

type MediaService struct {
	news      media.NewsSearcher
	videos    media.VideoSearcher
	responses *cache.Store
}

// NewMediaService caches search results in responses when it is not nil.
func NewMediaService(news media.NewsSearcher, videos media.VideoSearcher, responses *cache.Store) *MediaService {
	return &MediaService{
		news:      news,
		videos:    videos,
		responses: responses,
	}
}

// SearchNews searches articles for query after stripping punctuation. An
// empty query searches for cricket; max outside 1..100 falls back to 10.
func (s *MediaService) SearchNews(ctx context.Context, query string, max int) ([]media.Article, error) {
	cleaned := CleanSearchQuery(query)
	if cleaned == "" {
		cleaned = defaultNewsQuery
	}
	if max < 1 || max > maxNewsResults {
		max = defaultNewsMax
	}

	key := newsCachePrefix + strings.ToLower(cleaned) + ":" + strconv.Itoa(max)
	value, err := s.load(ctx, key, func(ctx context.Context) (any, error) {
		articles, err := s.news.SearchNews(ctx, cleaned, max)
		if err != nil {
			return nil, fmt.Errorf("search news: %w", err)
		}
		return articles, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]media.Article), nil
}

func (s *MediaService) SearchVideos(ctx context.Context, query string) ([]media.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}

	key := videosCachePrefix + strings.ToLower(query)
	value, err := s.load(ctx, key, func(ctx context.Context) (any, error) {
		videos, err := s.videos.SearchVideos(ctx, query, videoSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("search videos: %w", err)
		}
		return videos, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]media.Video), nil
}

func (s *MediaService) load(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.responses == nil {
		return loader(ctx)
	}
	return s.responses.GetOrLoad(ctx, key, loader)
}

// CleanSearchQuery drops everything but letters, digits, underscores and
// whitespace, then collapses whitespace runs to single spaces.
func CleanSearchQuery(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
