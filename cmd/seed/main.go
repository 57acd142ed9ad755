// Command seed fills a development database with fake users, posts,
// comments, reactions and follows.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/blog"
	"github.com/2beens/quillhub/internal/cache"
	"github.com/2beens/quillhub/internal/comments"
	"github.com/2beens/quillhub/internal/config"
	"github.com/2beens/quillhub/internal/db"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/logging"
	"github.com/2beens/quillhub/internal/social"
	"github.com/2beens/quillhub/internal/users"
)

const (
	seedPassword = "quillhub-seed-pass"
	seedCost     = 10
)

var reactionTypes = []string{social.ReactionLike, social.ReactionLove, social.ReactionBookmark}

func main() {
	env := flag.String("env", "development", "environment [dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	usersCount := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 3, "number of posts per user")
	seed := flag.Int64("seed", 0, "gofakeit seed, 0 for random")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}
	if cfg.Environment == "production" {
		log.Fatalln("refusing to seed a production database")
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogLevel:    cfg.LogLevel,
		LogToStdout: true,
		Environment: cfg.Environment,
	})

	gofakeit.Seed(*seed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %s", err)
	}

	usersRepo := users.NewRepo(pool)
	usersService := users.NewService(usersRepo, nil, nil, seedCost)
	usersService.OnCreated(users.ProfileHook(usersRepo))

	blogRepo := blog.NewRepo(pool)
	blogService := blog.NewService(blogRepo, nil, nil)
	taxonomy := blog.NewTaxonomyService(blog.NewTaxonomyRepo(pool), cache.New(1024*1024, time.Minute))
	commentsService := comments.NewService(comments.NewRepo(pool), nil)
	socialService := social.NewService(social.NewRepo(pool), blogService, nil)

	s := &seeder{
		users:    usersService,
		posts:    blogService,
		taxonomy: taxonomy,
		comments: commentsService,
		social:   socialService,
	}
	if err := s.run(ctx, *usersCount, *postsPerUser); err != nil {
		log.Fatalf("seed: %s", err)
	}
}

type seeder struct {
	users    *users.Service
	posts    *blog.Service
	taxonomy *blog.TaxonomyService
	comments *comments.Service
	social   *social.Service
}

func (s *seeder) run(ctx context.Context, usersCount, postsPerUser int) error {
	viewers := make([]identity.Viewer, 0, usersCount)
	for i := 0; i < usersCount; i++ {
		user, err := s.users.Register(ctx, users.NewUser{
			Email:     gofakeit.Email(),
			Password:  seedPassword,
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
		})
		if err != nil {
			return fmt.Errorf("register user: %w", err)
		}
		viewers = append(viewers, identity.Member(user.ID, user.Username))
	}
	log.Infof("created %d users", len(viewers))
	if len(viewers) == 0 {
		return nil
	}

	staff := identity.Staff(viewers[0].ID(), viewers[0].Username())
	categoryIDs, tagIDs, err := s.taxonomyFixtures(ctx, staff)
	if err != nil {
		return err
	}

	var slugs []string
	for _, author := range viewers {
		for i := 0; i < postsPerUser; i++ {
			post, err := s.posts.Create(ctx, author, randomPost(categoryIDs, tagIDs))
			if err != nil {
				return fmt.Errorf("create post: %w", err)
			}
			if post.Status == blog.StatusPublished {
				slugs = append(slugs, post.Slug)
			}
		}
	}
	log.Infof("created %d posts, %d published", len(viewers)*postsPerUser, len(slugs))

	for _, slug := range slugs {
		for _, viewer := range viewers {
			if gofakeit.Number(1, 3) != 1 {
				continue
			}
			if _, err := s.comments.Create(ctx, viewer, comments.NewComment{
				PostSlug: slug,
				Content:  gofakeit.Sentence(gofakeit.Number(5, 25)),
			}); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
			if _, err := s.social.React(ctx, viewer, social.ReactRequest{
				PostSlug:     slug,
				ReactionType: reactionTypes[gofakeit.Number(0, len(reactionTypes)-1)],
			}); err != nil {
				return fmt.Errorf("react: %w", err)
			}
		}
	}

	for i, follower := range viewers {
		followed := viewers[(i+1)%len(viewers)]
		if followed.ID() == follower.ID() {
			continue
		}
		if err := s.users.Follow(ctx, follower, followed.ID()); err != nil {
			return fmt.Errorf("follow: %w", err)
		}
	}

	log.Infoln("seeding done")
	return nil
}

func (s *seeder) taxonomyFixtures(ctx context.Context, staff identity.Viewer) ([]int, []int, error) {
	var categoryIDs, tagIDs []int
	for i := 0; i < 4; i++ {
		category, err := s.taxonomy.CreateCategory(ctx, staff, blog.CategoryInput{
			Name:        fmt.Sprintf("%s %d", gofakeit.BuzzWord(), gofakeit.Number(1, 9999)),
			Description: gofakeit.Sentence(8),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create category: %w", err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}
	for i := 0; i < 8; i++ {
		tag, err := s.taxonomy.CreateTag(ctx, staff, blog.TagInput{
			Name: fmt.Sprintf("%s-%d", gofakeit.HackerNoun(), gofakeit.Number(1, 9999)),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create tag: %w", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	return categoryIDs, tagIDs, nil
}

func randomPost(categoryIDs, tagIDs []int) blog.PostInput {
	title := gofakeit.Sentence(gofakeit.Number(3, 8))
	content := gofakeit.Paragraph(gofakeit.Number(2, 6), 5, 20, "\n\n")
	status := blog.StatusPublished
	if gofakeit.Number(1, 4) == 1 {
		status = blog.StatusDraft
	}
	featured := gofakeit.Number(1, 10) == 1
	category := categoryIDs[gofakeit.Number(0, len(categoryIDs)-1)]
	tags := []int{tagIDs[gofakeit.Number(0, len(tagIDs)-1)]}

	return blog.PostInput{
		Title:      &title,
		Content:    &content,
		Category:   blog.OptionalInt{Set: true, Value: &category},
		Tags:       &tags,
		Status:     &status,
		IsFeatured: &featured,
	}
}
