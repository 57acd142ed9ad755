package blog

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/quillhub/internal/comments"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/media"
)

const (
	excerptLen     = 150
	wordsPerMinute = 200
)

// Excerpt returns the first 150 characters of content, followed by "..."
// when something was cut.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLen {
		return content
	}
	return string([]rune(content)[:excerptLen]) + "..."
}

// ReadTime estimates reading time in minutes at 200 words per minute, never less than one.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return max(1, minutes)
}

type PostListPayload struct {
	ID                int               `json:"id"`
	Title             string            `json:"title"`
	Slug              string            `json:"slug"`
	Excerpt           string            `json:"excerpt"`
	AuthorName        string            `json:"author_name"`
	Category          *Category         `json:"category"`
	Tags              []Tag             `json:"tags"`
	FeaturedImage     *string           `json:"featured_image"`
	FeaturedImageURLs map[string]string `json:"featured_image_urls"`
	Status            Status            `json:"status"`
	IsFeatured        bool              `json:"is_featured"`
	CreatedAt         time.Time         `json:"created_at"`
	ViewsCount        int               `json:"views_count"`
	ReadTime          int               `json:"read_time"`
	ReactionCounts    map[string]int    `json:"reaction_counts"`
	UserReactions     []string          `json:"user_reactions"`
}

type PostDetailPayload struct {
	ID                int                `json:"id"`
	Title             string             `json:"title"`
	Slug              string             `json:"slug"`
	Content           string             `json:"content"`
	AuthorName        string             `json:"author_name"`
	Category          *Category          `json:"category"`
	Tags              []Tag              `json:"tags"`
	FeaturedImage     *string            `json:"featured_image"`
	FeaturedImageURLs map[string]string  `json:"featured_image_urls"`
	Status            Status             `json:"status"`
	IsFeatured        bool               `json:"is_featured"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	ViewsCount        int                `json:"views_count"`
	Comments          []comments.Payload `json:"comments"`
	CommentCount      int                `json:"comment_count"`
	ReadTime          int                `json:"read_time"`
	ReactionCounts    map[string]int     `json:"reaction_counts"`
	UserReactions     []string           `json:"user_reactions"`
}

type MostViewedPayload struct {
	Title *string `json:"title"`
	Slug  *string `json:"slug"`
	Views int     `json:"views"`
}

type StatisticsPayload struct {
	TotalPosts     int               `json:"total_posts"`
	TotalViews     int64             `json:"total_views"`
	MostViewedPost MostViewedPayload `json:"most_viewed_post"`
}

type Presenter struct {
	pipeline  *media.Pipeline
	reactions reactionSource
}

func NewPresenter(pipeline *media.Pipeline, reactions reactionSource) *Presenter {
	return &Presenter{
		pipeline:  pipeline,
		reactions: reactions,
	}
}

func (p *Presenter) featuredImage(ref string) *string {
	if ref == "" {
		return nil
	}
	url := p.pipeline.URL(ref)
	return &url
}

// reactionLoader prefers the request scoped loader so that every payload of
// one request shares its batches and cache.
func (p *Presenter) reactionLoader(ctx context.Context, viewer identity.Viewer) *ReactionLoader {
	if loader := ReactionLoaderFrom(ctx); loader != nil && loader.viewerID == viewer.ID() {
		return loader
	}
	return NewReactionLoader(p.reactions, viewer)
}

func tagsOrEmpty(tags []Tag) []Tag {
	if tags == nil {
		return []Tag{}
	}
	return tags
}

func (p *Presenter) List(ctx context.Context, viewer identity.Viewer, posts []*Post) ([]PostListPayload, error) {
	ids := make([]int, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	summaries, err := p.reactionLoader(ctx, viewer).LoadAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	payloads := make([]PostListPayload, 0, len(posts))
	for _, post := range posts {
		summary := summaries[post.ID]
		payloads = append(payloads, PostListPayload{
			ID:                post.ID,
			Title:             post.Title,
			Slug:              post.Slug,
			Excerpt:           Excerpt(post.Content),
			AuthorName:        post.AuthorName,
			Category:          post.Category,
			Tags:              tagsOrEmpty(post.Tags),
			FeaturedImage:     p.featuredImage(post.FeaturedImage),
			FeaturedImageURLs: p.pipeline.FeaturedURLs(post.FeaturedImage),
			Status:            post.Status,
			IsFeatured:        post.IsFeatured,
			CreatedAt:         post.CreatedAt,
			ViewsCount:        post.ViewsCount,
			ReadTime:          ReadTime(post.Content),
			ReactionCounts:    summary.Counts,
			UserReactions:     summary.Mine,
		})
	}
	return payloads, nil
}

// Detail renders one post together with the comments visible to the viewer
// and the number of approved comments.
func (p *Presenter) Detail(
	ctx context.Context,
	viewer identity.Viewer,
	post *Post,
	postComments []*comments.Comment,
	approvedCount int,
) (PostDetailPayload, error) {
	summary, err := p.reactionLoader(ctx, viewer).Load(ctx, post.ID)
	if err != nil {
		return PostDetailPayload{}, err
	}

	return PostDetailPayload{
		ID:                post.ID,
		Title:             post.Title,
		Slug:              post.Slug,
		Content:           post.Content,
		AuthorName:        post.AuthorName,
		Category:          post.Category,
		Tags:              tagsOrEmpty(post.Tags),
		FeaturedImage:     p.featuredImage(post.FeaturedImage),
		FeaturedImageURLs: p.pipeline.FeaturedURLs(post.FeaturedImage),
		Status:            post.Status,
		IsFeatured:        post.IsFeatured,
		CreatedAt:         post.CreatedAt,
		UpdatedAt:         post.UpdatedAt,
		ViewsCount:        post.ViewsCount,
		Comments:          comments.NewPayloads(postComments),
		CommentCount:      approvedCount,
		ReadTime:          ReadTime(post.Content),
		ReactionCounts:    summary.Counts,
		UserReactions:     summary.Mine,
	}, nil
}

func (p *Presenter) Statistics(stats *Statistics) StatisticsPayload {
	payload := StatisticsPayload{
		TotalPosts: stats.TotalPosts,
		TotalViews: stats.TotalViews,
	}
	if mv := stats.MostViewed; mv != nil {
		payload.MostViewedPost = MostViewedPayload{
			Title: &mv.Title,
			Slug:  &mv.Slug,
			Views: mv.Views,
		}
	}
	return payload
}
