package blog

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/cache"
	"github.com/2beens/quillhub/internal/identity"
)

//go:generate mockgen -source=$GOFILE -destination=taxonomy_mocks_test.go -package=blog_test

const (
	categoriesCacheKey = "categories"
	tagsCacheKey       = "tags"
)

type taxonomyRepo interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CategoryBySlug(ctx context.Context, categorySlug string) (*Category, error)
	CreateCategory(ctx context.Context, name, description string) (*Category, error)
	ListTags(ctx context.Context) ([]Tag, error)
	TagBySlug(ctx context.Context, tagSlug string) (*Tag, error)
	CreateTag(ctx context.Context, name string) (*Tag, error)
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type TagInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

// TaxonomyService serves categories and tags. Full lists are cached until
// the next create.
type TaxonomyService struct {
	repo  taxonomyRepo
	cache *cache.Cache
}

func NewTaxonomyService(repo taxonomyRepo, listCache *cache.Cache) *TaxonomyService {
	return &TaxonomyService{
		repo:  repo,
		cache: listCache,
	}
}

func (s *TaxonomyService) Categories(ctx context.Context) ([]Category, error) {
	return cachedList(s.cache, categoriesCacheKey, func() ([]Category, error) {
		return s.repo.ListCategories(ctx)
	})
}

func (s *TaxonomyService) Tags(ctx context.Context) ([]Tag, error) {
	return cachedList(s.cache, tagsCacheKey, func() ([]Tag, error) {
		return s.repo.ListTags(ctx)
	})
}

func cachedList[T any](c *cache.Cache, key string, load func() ([]T, error)) ([]T, error) {
	var cached []T
	found, err := c.Get(key, &cached)
	if err != nil {
		log.Warnf("taxonomy cache get %s: %s", key, err)
	}
	if found {
		return cached, nil
	}

	list, err := load()
	if err != nil {
		return nil, apperr.Internal("list "+key, err)
	}
	if err := c.Set(key, list); err != nil {
		log.Warnf("taxonomy cache set %s: %s", key, err)
	}
	return list, nil
}

func (s *TaxonomyService) Category(ctx context.Context, categorySlug string) (*Category, error) {
	category, err := s.repo.CategoryBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal("get category", err)
	}
	return category, nil
}

func (s *TaxonomyService) Tag(ctx context.Context, tagSlug string) (*Tag, error) {
	tag, err := s.repo.TagBySlug(ctx, tagSlug)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, apperr.Internal("get tag", err)
	}
	return tag, nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, viewer identity.Viewer, input CategoryInput) (*Category, error) {
	if err := requireStaff(viewer); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := apperr.ValidateStruct(input); err != nil {
		return nil, err
	}

	category, err := s.repo.CreateCategory(ctx, input.Name, strings.TrimSpace(input.Description))
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			return nil, apperr.Conflict("category with this name already exists")
		}
		return nil, apperr.Internal("create category", err)
	}

	s.cache.Delete(categoriesCacheKey)
	return category, nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, viewer identity.Viewer, input TagInput) (*Tag, error) {
	if err := requireStaff(viewer); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := apperr.ValidateStruct(input); err != nil {
		return nil, err
	}

	tag, err := s.repo.CreateTag(ctx, input.Name)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			return nil, apperr.Conflict("tag with this name already exists")
		}
		return nil, apperr.Internal("create tag", err)
	}

	s.cache.Delete(tagsCacheKey)
	return tag, nil
}

func requireStaff(viewer identity.Viewer) error {
	switch {
	case !viewer.IsAuthenticated():
		return apperr.Unauthenticated(msgNotAuthenticated)
	case !viewer.IsStaff():
		return apperr.PermissionDenied(msgNoPermission)
	default:
		return nil
	}
}
