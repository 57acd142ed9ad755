package blog

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/graph-gophers/dataloader"

	"github.com/2beens/quillhub/internal/identity"
)

//go:generate mockgen -source=$GOFILE -destination=reactions_mocks_test.go -package=blog_test

type loaderContextKey struct{}

const reactionBatchWait = time.Millisecond

// ReactionSummary is what a viewer sees of a post's reactions.
type ReactionSummary struct {
	Counts map[string]int
	Mine   []string
}

func newReactionSummary() ReactionSummary {
	return ReactionSummary{
		Counts: map[string]int{},
		Mine:   []string{},
	}
}

type reactionSource interface {
	ReactionSummaries(ctx context.Context, viewerID int, postIDs []int) (map[int]ReactionSummary, error)
}

// ReactionLoader batches and caches reaction lookups for one viewer. It lives
// for a single request, see ReactionLoaderMiddleware.
type ReactionLoader struct {
	viewerID int
	loader   *dataloader.Loader
}

func NewReactionLoader(source reactionSource, viewer identity.Viewer) *ReactionLoader {
	batch := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		results := make([]*dataloader.Result, len(keys))

		ids := make([]int, 0, len(keys))
		for _, key := range keys {
			id, err := strconv.Atoi(key.String())
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}

		summaries, err := source.ReactionSummaries(ctx, viewer.ID(), ids)
		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result{Error: err}
				continue
			}
			id, convErr := strconv.Atoi(key.String())
			if convErr != nil {
				results[i] = &dataloader.Result{Error: fmt.Errorf("bad post key %q", key.String())}
				continue
			}
			summary, ok := summaries[id]
			if !ok {
				summary = newReactionSummary()
			}
			results[i] = &dataloader.Result{Data: summary}
		}
		return results
	}

	return &ReactionLoader{
		viewerID: viewer.ID(),
		loader:   dataloader.NewBatchedLoader(batch, dataloader.WithWait(reactionBatchWait)),
	}
}

// ReactionLoaderMiddleware puts a fresh ReactionLoader for the request's
// viewer on the context. It has to run after the identity middleware.
func ReactionLoaderMiddleware(source reactionSource) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loader := NewReactionLoader(source, identity.FromRequest(r))
			ctx := context.WithValue(r.Context(), loaderContextKey{}, loader)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ReactionLoaderFrom returns the loader stored by ReactionLoaderMiddleware, or nil.
func ReactionLoaderFrom(ctx context.Context) *ReactionLoader {
	loader, _ := ctx.Value(loaderContextKey{}).(*ReactionLoader)
	return loader
}

func (l *ReactionLoader) Load(ctx context.Context, postID int) (ReactionSummary, error) {
	summaries, err := l.LoadAll(ctx, []int{postID})
	if err != nil {
		return ReactionSummary{}, err
	}
	return summaries[postID], nil
}

// LoadAll schedules every id before waiting so that they end up in one batch.
func (l *ReactionLoader) LoadAll(ctx context.Context, postIDs []int) (map[int]ReactionSummary, error) {
	thunks := make(map[int]dataloader.Thunk, len(postIDs))
	for _, id := range postIDs {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = l.loader.Load(ctx, dataloader.StringKey(strconv.Itoa(id)))
	}

	summaries := make(map[int]ReactionSummary, len(thunks))
	for id, thunk := range thunks {
		data, err := thunk()
		if err != nil {
			return nil, fmt.Errorf("load reactions of post %d: %w", id, err)
		}
		summary, ok := data.(ReactionSummary)
		if !ok {
			return nil, fmt.Errorf("unexpected reaction data %T", data)
		}
		mine := append([]string{}, summary.Mine...)
		sort.Strings(mine)
		summaries[id] = ReactionSummary{Counts: summary.Counts, Mine: mine}
	}
	return summaries, nil
}
