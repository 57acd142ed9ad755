package media

import (
	"net/url"
	"strings"
)

// Pipeline reports where the rendered variants of a stored image live.
// Resizing itself happens outside this service; variants are addressed by
// a query parameter on the original's URL.
type Pipeline struct {
	baseURL string
}

func NewPipeline(baseURL string) *Pipeline {
	return &Pipeline{baseURL: strings.TrimRight(baseURL, "/")}
}

var (
	featuredVariants = []string{"large", "medium", "small", "webp"}
	avatarVariants   = []string{"thumbnail", "small"}
)

// URL of the stored original, empty for an empty reference.
func (p *Pipeline) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return p.baseURL + "/" + ref
}

// FeaturedURLs returns nil when there is no image.
func (p *Pipeline) FeaturedURLs(ref string) map[string]string {
	return p.variantURLs(ref, featuredVariants)
}

func (p *Pipeline) AvatarURLs(ref string) map[string]string {
	return p.variantURLs(ref, avatarVariants)
}

func (p *Pipeline) variantURLs(ref string, variants []string) map[string]string {
	if ref == "" {
		return nil
	}
	urls := make(map[string]string, len(variants))
	for _, v := range variants {
		urls[v] = p.URL(ref) + "?" + url.Values{"variant": {v}}.Encode()
	}
	return urls
}
