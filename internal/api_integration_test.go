//go:build integration_test || all_tests

package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
)

type postResponse struct {
	ID             int            `json:"id"`
	Slug           string         `json:"slug"`
	Status         string         `json:"status"`
	ViewsCount     int            `json:"views_count"`
	CommentCount   int            `json:"comment_count"`
	ReactionCounts map[string]int `json:"reaction_counts"`
	UserReactions  []string       `json:"user_reactions"`
	Comments       []struct {
		ID         int    `json:"id"`
		Content    string `json:"content"`
		IsApproved bool   `json:"is_approved"`
	} `json:"comments"`
}

type pageResponse struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

func (s *IntegrationTestSuite) createPost(ctx context.Context, token, status string) postResponse {
	title := fmt.Sprintf("%s %d", gofakeit.Sentence(4), gofakeit.Number(1, 1_000_000))
	code, body := s.do(ctx, http.MethodPost, "/posts", token, map[string]any{
		"title":   title,
		"content": gofakeit.Paragraph(2, 4, 20, " "),
		"status":  status,
	})
	s.Require().Equal(http.StatusCreated, code, string(body))

	var post postResponse
	s.Require().NoError(json.Unmarshal(body, &post))
	return post
}

func (s *IntegrationTestSuite) getPost(ctx context.Context, token, slug string) (int, postResponse) {
	code, body := s.do(ctx, http.MethodGet, "/posts/"+slug, token, nil)
	var post postResponse
	if code == http.StatusOK {
		s.Require().NoError(json.Unmarshal(body, &post))
	}
	return code, post
}

func (s *IntegrationTestSuite) TestPostViewsAreCountedUnderConcurrency() {
	ctx := context.Background()
	author := s.register(ctx, gofakeit.Email())
	post := s.createPost(ctx, author.AccessToken, "published")
	s.Equal(0, post.ViewsCount)

	const readers = 25
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, _ := s.do(ctx, http.MethodGet, "/posts/"+post.Slug, "", nil)
			s.Equal(http.StatusOK, code)
		}()
	}
	wg.Wait()

	code, got := s.getPost(ctx, "", post.Slug)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(readers+1, got.ViewsCount)
}

func (s *IntegrationTestSuite) TestDraftVisibility() {
	ctx := context.Background()
	author := s.register(ctx, gofakeit.Email())
	other := s.register(ctx, gofakeit.Email())
	draft := s.createPost(ctx, author.AccessToken, "draft")

	code, _ := s.getPost(ctx, "", draft.Slug)
	s.Equal(http.StatusNotFound, code)

	code, _ = s.getPost(ctx, other.AccessToken, draft.Slug)
	s.Equal(http.StatusNotFound, code)

	code, got := s.getPost(ctx, author.AccessToken, draft.Slug)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("draft", got.Status)

	code, body := s.do(ctx, http.MethodPatch, "/posts/"+draft.Slug, other.AccessToken, map[string]any{"status": "published"})
	s.Equal(http.StatusNotFound, code, string(body))

	code, body = s.do(ctx, http.MethodGet, "/posts/drafts", author.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code)
	var drafts pageResponse
	s.Require().NoError(json.Unmarshal(body, &drafts))
	s.GreaterOrEqual(drafts.Count, 1)
}

func (s *IntegrationTestSuite) TestDuplicateTitlesGetNumberedSlugs() {
	ctx := context.Background()
	author := s.register(ctx, gofakeit.Email())
	title := fmt.Sprintf("Same title %d", gofakeit.Number(1, 1_000_000))

	var slugs []string
	for i := 0; i < 3; i++ {
		code, body := s.do(ctx, http.MethodPost, "/posts", author.AccessToken, map[string]any{
			"title":   title,
			"content": "some content that is long enough",
			"status":  "published",
		})
		s.Require().Equal(http.StatusCreated, code, string(body))
		var post postResponse
		s.Require().NoError(json.Unmarshal(body, &post))
		slugs = append(slugs, post.Slug)
	}

	base := slugs[0]
	s.Equal([]string{base, base + "-2", base + "-3"}, slugs)
}

func (s *IntegrationTestSuite) TestFollowRoundTrip() {
	ctx := context.Background()
	followed := s.register(ctx, gofakeit.Email())
	follower := s.register(ctx, gofakeit.Email())
	followPath := fmt.Sprintf("/users/%d/follow", followed.UserID)

	code, body := s.do(ctx, http.MethodPost, followPath, follower.AccessToken, nil)
	s.Require().Equal(http.StatusCreated, code, string(body))

	code, body = s.do(ctx, http.MethodPost, followPath, follower.AccessToken, nil)
	s.Equal(http.StatusBadRequest, code, string(body))

	code, body = s.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/follow", follower.UserID), follower.AccessToken, nil)
	s.Equal(http.StatusBadRequest, code, string(body))

	s.Equal(1, s.followerCount(ctx, followed.UserID))

	code, body = s.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/followers", followed.UserID), "", nil)
	s.Require().Equal(http.StatusOK, code)
	var followers pageResponse
	s.Require().NoError(json.Unmarshal(body, &followers))
	s.Equal(1, followers.Count)

	code, body = s.do(ctx, http.MethodDelete, followPath, follower.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code, string(body))
	s.Equal(0, s.followerCount(ctx, followed.UserID))

	code, _ = s.do(ctx, http.MethodDelete, followPath, follower.AccessToken, nil)
	s.Equal(http.StatusBadRequest, code)
}

func (s *IntegrationTestSuite) followerCount(ctx context.Context, userID int) int {
	code, body := s.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", userID), "", nil)
	s.Require().Equal(http.StatusOK, code)

	var user struct {
		Profile struct {
			FollowerCount int `json:"follower_count"`
		} `json:"profile"`
	}
	s.Require().NoError(json.Unmarshal(body, &user))
	return user.Profile.FollowerCount
}

func (s *IntegrationTestSuite) TestCommentModeration() {
	ctx := context.Background()
	author := s.register(ctx, gofakeit.Email())
	post := s.createPost(ctx, author.AccessToken, "published")

	code, body := s.do(ctx, http.MethodPost, "/comments", "", map[string]any{
		"post_slug": post.Slug,
		"content":   "anonymous without email",
	})
	s.Equal(http.StatusBadRequest, code, string(body))

	code, body = s.do(ctx, http.MethodPost, "/comments", "", map[string]any{
		"post_slug": post.Slug,
		"content":   "nice read",
		"email":     gofakeit.Email(),
	})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var comment struct {
		ID         int  `json:"id"`
		IsApproved bool `json:"is_approved"`
	}
	s.Require().NoError(json.Unmarshal(body, &comment))
	s.False(comment.IsApproved)

	_, got := s.getPost(ctx, "", post.Slug)
	s.Empty(got.Comments)
	s.Equal(0, got.CommentCount)

	approvePath := fmt.Sprintf("/comments/%d/approve", comment.ID)
	code, _ = s.do(ctx, http.MethodPost, approvePath, author.AccessToken, nil)
	s.Equal(http.StatusForbidden, code)

	staffEmail := gofakeit.Email()
	s.register(ctx, staffEmail)
	staff := s.promote(ctx, staffEmail)

	code, body = s.do(ctx, http.MethodPost, approvePath, staff.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code, string(body))

	_, got = s.getPost(ctx, "", post.Slug)
	s.Require().Len(got.Comments, 1)
	s.Equal("nice read", got.Comments[0].Content)
	s.Equal(1, got.CommentCount)
}

func (s *IntegrationTestSuite) TestReactionsAndReadingList() {
	ctx := context.Background()
	author := s.register(ctx, gofakeit.Email())
	reader := s.register(ctx, gofakeit.Email())
	post := s.createPost(ctx, author.AccessToken, "published")
	react := map[string]string{"post_slug": post.Slug, "reaction_type": "love"}

	code, body := s.do(ctx, http.MethodPost, "/reactions/react", reader.AccessToken, react)
	s.Require().Equal(http.StatusCreated, code, string(body))

	_, got := s.getPost(ctx, reader.AccessToken, post.Slug)
	s.Equal(1, got.ReactionCounts["love"])
	s.Equal([]string{"love"}, got.UserReactions)

	code, body = s.do(ctx, http.MethodPost, "/reactions/react", reader.AccessToken, react)
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`{"status":"removed"}`, string(body))

	code, body = s.do(ctx, http.MethodPost, "/reading-list", reader.AccessToken, map[string]string{"post_slug": post.Slug})
	s.Require().Equal(http.StatusCreated, code, string(body))

	code, _ = s.do(ctx, http.MethodPost, "/reading-list", reader.AccessToken, map[string]string{"post_slug": post.Slug})
	s.Equal(http.StatusBadRequest, code)

	code, body = s.do(ctx, http.MethodGet, "/reading-list", reader.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code)
	var list pageResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(1, list.Count)
	s.True(strings.Contains(string(list.Results[0]), post.Slug))

	code, _ = s.do(ctx, http.MethodDelete, "/reading-list/"+post.Slug, reader.AccessToken, nil)
	s.Equal(http.StatusOK, code)
	code, _ = s.do(ctx, http.MethodDelete, "/reading-list/"+post.Slug, reader.AccessToken, nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *IntegrationTestSuite) TestLogoutRevokesTokens() {
	ctx := context.Background()
	user := s.register(ctx, gofakeit.Email())

	code, _ := s.do(ctx, http.MethodGet, "/users/profile", user.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code)

	code, body := s.do(ctx, http.MethodPost, "/auth/logout", user.AccessToken, map[string]string{
		"refresh_token": user.RefreshToken,
	})
	s.Require().Equal(http.StatusOK, code, string(body))

	code, _ = s.do(ctx, http.MethodGet, "/users/profile", user.AccessToken, nil)
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.do(ctx, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": user.RefreshToken,
	})
	s.Equal(http.StatusUnauthorized, code)
}

type statisticsResponse struct {
	TotalPosts     int   `json:"total_posts"`
	TotalViews     int64 `json:"total_views"`
	MostViewedPost struct {
		Title *string `json:"title"`
		Slug  *string `json:"slug"`
		Views int     `json:"views"`
	} `json:"most_viewed_post"`
}

func (s *IntegrationTestSuite) statistics(ctx context.Context) statisticsResponse {
	code, body := s.do(ctx, http.MethodGet, "/posts/statistics", "", nil)
	s.Require().Equal(http.StatusOK, code, string(body))

	var stats statisticsResponse
	s.Require().NoError(json.Unmarshal(body, &stats))
	return stats
}

func (s *IntegrationTestSuite) setViews(ctx context.Context, postID, views int) {
	_, err := s.DB.ExecContext(ctx, `UPDATE post SET views_count = $2 WHERE id = $1`, postID, views)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) TestStatistics() {
	ctx := context.Background()
	_, err := s.DB.ExecContext(ctx, `TRUNCATE post CASCADE`)
	s.Require().NoError(err)

	empty := s.statistics(ctx)
	s.Equal(0, empty.TotalPosts)
	s.Equal(int64(0), empty.TotalViews)
	s.Nil(empty.MostViewedPost.Title)
	s.Nil(empty.MostViewedPost.Slug)
	s.Equal(0, empty.MostViewedPost.Views)

	author := s.register(ctx, gofakeit.Email())
	ten := s.createPost(ctx, author.AccessToken, "published")
	zero := s.createPost(ctx, author.AccessToken, "published")
	five := s.createPost(ctx, author.AccessToken, "published")
	draft := s.createPost(ctx, author.AccessToken, "draft")
	s.setViews(ctx, ten.ID, 10)
	s.setViews(ctx, zero.ID, 0)
	s.setViews(ctx, five.ID, 5)
	s.setViews(ctx, draft.ID, 100)

	stats := s.statistics(ctx)
	s.Equal(3, stats.TotalPosts)
	s.Equal(int64(15), stats.TotalViews)
	s.Require().NotNil(stats.MostViewedPost.Slug)
	s.Equal(ten.Slug, *stats.MostViewedPost.Slug)
	s.Equal(10, stats.MostViewedPost.Views)

	// equal views, the older post keeps the lead
	s.setViews(ctx, five.ID, 10)
	stats = s.statistics(ctx)
	s.Equal(int64(20), stats.TotalViews)
	s.Require().NotNil(stats.MostViewedPost.Slug)
	s.Equal(ten.Slug, *stats.MostViewedPost.Slug)

	code, body := s.do(ctx, http.MethodPatch, "/posts/"+ten.Slug, author.AccessToken, map[string]any{"status": "draft"})
	s.Require().Equal(http.StatusOK, code, string(body))
	stats = s.statistics(ctx)
	s.Equal(2, stats.TotalPosts)
	s.Equal(int64(10), stats.TotalViews)
	s.Require().NotNil(stats.MostViewedPost.Slug)
	s.Equal(five.Slug, *stats.MostViewedPost.Slug)
}

func (s *IntegrationTestSuite) listSlugs(ctx context.Context, query string) []string {
	code, body := s.do(ctx, http.MethodGet, "/posts?"+query, "", nil)
	s.Require().Equal(http.StatusOK, code, string(body))

	var page struct {
		Count   int `json:"count"`
		Results []struct {
			Slug string `json:"slug"`
		} `json:"results"`
	}
	s.Require().NoError(json.Unmarshal(body, &page))
	s.Require().Equal(len(page.Results), page.Count, "filter %s fits one page", query)

	slugs := make([]string, 0, len(page.Results))
	for _, result := range page.Results {
		slugs = append(slugs, result.Slug)
	}
	return slugs
}

func (s *IntegrationTestSuite) TestListFilters() {
	ctx := context.Background()
	staffEmail := gofakeit.Email()
	s.register(ctx, staffEmail)
	staff := s.promote(ctx, staffEmail)
	other := s.register(ctx, gofakeit.Email())
	marker := fmt.Sprintf("zebra%d", gofakeit.Number(1, 1_000_000))

	code, body := s.do(ctx, http.MethodPost, "/categories", staff.AccessToken, map[string]string{
		"name": fmt.Sprintf("Filter category %d", gofakeit.Number(1, 1_000_000)),
	})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var category struct {
		ID   int    `json:"id"`
		Slug string `json:"slug"`
	}
	s.Require().NoError(json.Unmarshal(body, &category))

	code, body = s.do(ctx, http.MethodPost, "/tags", staff.AccessToken, map[string]string{
		"name": fmt.Sprintf("filter-tag-%d", gofakeit.Number(1, 1_000_000)),
	})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var tag struct {
		ID   int    `json:"id"`
		Slug string `json:"slug"`
	}
	s.Require().NoError(json.Unmarshal(body, &tag))

	create := func(token string, fields map[string]any) postResponse {
		fields["status"] = "published"
		if _, ok := fields["content"]; !ok {
			fields["content"] = "plain body text for the filters"
		}
		code, body := s.do(ctx, http.MethodPost, "/posts", token, fields)
		s.Require().Equal(http.StatusCreated, code, string(body))
		var post postResponse
		s.Require().NoError(json.Unmarshal(body, &post))
		return post
	}

	alpha := create(staff.AccessToken, map[string]any{
		"title":    "Alpha " + marker,
		"category": category.ID,
		"tags":     []int{tag.ID},
	})
	beta := create(staff.AccessToken, map[string]any{
		"title":   "Beta post of the staff author",
		"content": "the body mentions " + strings.ToUpper(marker) + " once",
	})
	gamma := create(staff.AccessToken, map[string]any{
		"title": "Gamma post of the staff author",
		"tags":  []int{tag.ID},
	})
	foreign := create(other.AccessToken, map[string]any{
		"title":    "Foreign post " + marker,
		"category": category.ID,
	})
	hidden := s.createPost(ctx, staff.AccessToken, "draft")

	s.setViews(ctx, alpha.ID, 7)
	s.setViews(ctx, beta.ID, 30)
	s.setViews(ctx, gamma.ID, 1)

	s.ElementsMatch([]string{alpha.Slug, foreign.Slug}, s.listSlugs(ctx, "category="+category.Slug))
	s.ElementsMatch([]string{alpha.Slug, gamma.Slug}, s.listSlugs(ctx, "tag="+tag.Slug))
	s.ElementsMatch([]string{foreign.Slug}, s.listSlugs(ctx, "author="+other.Username))
	s.ElementsMatch([]string{alpha.Slug, beta.Slug, foreign.Slug}, s.listSlugs(ctx, "search="+strings.ToUpper(marker)))
	s.ElementsMatch([]string{alpha.Slug}, s.listSlugs(ctx, "search="+marker+"&category="+category.Slug+"&tag="+tag.Slug))

	author := "author=" + staff.Username
	s.NotContains(s.listSlugs(ctx, author), hidden.Slug)
	s.Equal([]string{beta.Slug, alpha.Slug, gamma.Slug}, s.listSlugs(ctx, author+"&ordering=-views_count"))
	s.Equal([]string{gamma.Slug, alpha.Slug, beta.Slug}, s.listSlugs(ctx, author+"&ordering=views_count"))
	s.Equal([]string{alpha.Slug, beta.Slug, gamma.Slug}, s.listSlugs(ctx, author+"&ordering=title"))
	s.Equal([]string{gamma.Slug, beta.Slug, alpha.Slug}, s.listSlugs(ctx, author+"&ordering=-created_at"))
	// unknown ordering falls back to newest first
	s.Equal([]string{gamma.Slug, beta.Slug, alpha.Slug}, s.listSlugs(ctx, author+"&ordering=nonsense"))
	s.Empty(s.listSlugs(ctx, author+"&status=draft"))

	code, _ = s.do(ctx, http.MethodGet, "/posts?status=archived", "", nil)
	s.Equal(http.StatusBadRequest, code)

	code, body = s.do(ctx, http.MethodGet, "/posts?"+author+"&page_size=2&page=2", "", nil)
	s.Require().Equal(http.StatusOK, code, string(body))
	var page pageResponse
	s.Require().NoError(json.Unmarshal(body, &page))
	s.Equal(3, page.Count)
	s.Len(page.Results, 1)
}

func (s *IntegrationTestSuite) TestReadingListHidesUnpublishedPosts() {
	ctx := context.Background()
	author := s.register(ctx, gofakeit.Email())
	reader := s.register(ctx, gofakeit.Email())
	post := s.createPost(ctx, author.AccessToken, "published")

	code, body := s.do(ctx, http.MethodPost, "/reading-list", reader.AccessToken, map[string]string{"post_slug": post.Slug})
	s.Require().Equal(http.StatusCreated, code, string(body))

	code, body = s.do(ctx, http.MethodPatch, "/posts/"+post.Slug, author.AccessToken, map[string]any{"status": "draft"})
	s.Require().Equal(http.StatusOK, code, string(body))

	code, body = s.do(ctx, http.MethodGet, "/reading-list", reader.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code)
	var list pageResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(0, list.Count)
	s.Empty(list.Results)

	// the entry comes back once the post is published again
	code, body = s.do(ctx, http.MethodPatch, "/posts/"+post.Slug, author.AccessToken, map[string]any{"status": "published"})
	s.Require().Equal(http.StatusOK, code, string(body))
	code, body = s.do(ctx, http.MethodGet, "/reading-list", reader.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(1, list.Count)
}

func (s *IntegrationTestSuite) TestFollowCountersWithoutProfileRow() {
	ctx := context.Background()
	followed := s.register(ctx, gofakeit.Email())
	follower := s.register(ctx, gofakeit.Email())

	// as if the profile hook had failed after registration
	_, err := s.DB.ExecContext(ctx, `DELETE FROM user_profile WHERE user_id = $1`, followed.UserID)
	s.Require().NoError(err)

	followPath := fmt.Sprintf("/users/%d/follow", followed.UserID)
	code, body := s.do(ctx, http.MethodPost, followPath, follower.AccessToken, nil)
	s.Require().Equal(http.StatusCreated, code, string(body))
	s.Equal(1, s.followerCount(ctx, followed.UserID))

	code, body = s.do(ctx, http.MethodPut, "/users/profile", followed.AccessToken, map[string]string{"bio": "back again"})
	s.Require().Equal(http.StatusOK, code, string(body))

	code, body = s.do(ctx, http.MethodDelete, followPath, follower.AccessToken, nil)
	s.Require().Equal(http.StatusOK, code, string(body))
	s.Equal(0, s.followerCount(ctx, followed.UserID))
}
