package blog

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/quillhub/internal/apperr"
)

const defaultOrdering = "-created_at"

var orderings = map[string]string{
	"created_at":   "p.created_at ASC, p.id ASC",
	"-created_at":  "p.created_at DESC, p.id DESC",
	"views_count":  "p.views_count ASC, p.id ASC",
	"-views_count": "p.views_count DESC, p.id DESC",
	"title":        "p.title ASC, p.id ASC",
	"-title":       "p.title DESC, p.id DESC",
}

// ListFilter narrows a post listing. Zero values mean no restriction.
type ListFilter struct {
	Category string
	Author   string
	AuthorID int
	Status   Status
	Tag      string
	Search   string
	Ordering string
}

// ParseListFilter reads the filter query parameters. An unknown ordering
// falls back to newest first, an unknown status is a validation error.
func ParseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Author:   strings.TrimSpace(q.Get("author")),
		Tag:      strings.TrimSpace(q.Get("tag")),
		Search:   strings.TrimSpace(q.Get("search")),
		Ordering: q.Get("ordering"),
	}

	if status := strings.TrimSpace(q.Get("status")); status != "" {
		filter.Status = Status(status)
		if !filter.Status.Valid() {
			msg := fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", status)
			return ListFilter{}, apperr.Validation(msg, map[string]string{"status": msg})
		}
	}

	if _, ok := orderings[filter.Ordering]; !ok {
		filter.Ordering = defaultOrdering
	}

	return filter, nil
}

func (f ListFilter) orderBy() string {
	if clause, ok := orderings[f.Ordering]; ok {
		return clause
	}
	return orderings[defaultOrdering]
}

// conditions appends the filter's SQL conditions over post p, author u and
// category c to where, numbering placeholders after args.
func (f ListFilter) conditions(where []string, args []any) ([]string, []any) {
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.Author != "" {
		args = append(args, f.Author)
		where = append(where, fmt.Sprintf("u.username = $%d", len(args)))
	}
	if f.AuthorID != 0 {
		args = append(args, f.AuthorID)
		where = append(where, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tag pt JOIN tag t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.slug = $%d)",
			len(args),
		))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where = append(where, fmt.Sprintf("(p.title ILIKE $%[1]d OR p.content ILIKE $%[1]d)", len(args)))
	}
	return where, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
