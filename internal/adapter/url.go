package adapter

import (
	"net/url"
	"strings"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// Canonicalizer normalizes product URLs into the form used as the
// deduplication key. Scheme-relative and path-relative links are absolutized
// against the site base. The query policy is configuration, not code: with an
// empty allow-list every query parameter is stripped (a URL identifies one
// product); with a non-empty allow-list only the named parameters survive, in
// sorted order, so query-addressed product variants are tracked separately.
type Canonicalizer struct {
	base  *url.URL
	allow map[string]bool
}

// NewCanonicalizer creates a canonicalizer for a site. siteBase may be empty
// when all discovered links are already absolute.
func NewCanonicalizer(siteBase string, allowParams []string) (*Canonicalizer, error) {
	c := &Canonicalizer{}
	if siteBase != "" {
		base, err := url.Parse(siteBase)
		if err != nil || base.Host == "" {
			return nil, errs.NewConfiguration("invalid site_base "+siteBase, err)
		}
		c.base = base
	}
	if len(allowParams) > 0 {
		c.allow = make(map[string]bool, len(allowParams))
		for _, p := range allowParams {
			c.allow[p] = true
		}
	}
	return c, nil
}

// Canonicalize returns the canonical form of href. Canonicalization is
// idempotent: canon(canon(u)) == canon(u).
func (c *Canonicalizer) Canonicalize(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", errs.NewParsing("canonicalize", "empty href", nil)
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", errs.NewParsing("canonicalize", "invalid href "+href, err)
	}

	if u.Host == "" {
		if c.base == nil {
			return "", errs.NewParsing("canonicalize", "relative href without a site base: "+href, nil)
		}
		u = c.base.ResolveReference(u)
	}
	// scheme-relative links inherit https
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	u.Fragment = ""
	u.RawFragment = ""

	if len(c.allow) == 0 {
		u.RawQuery = ""
	} else {
		q := u.Query()
		for key := range q {
			if !c.allow[key] {
				q.Del(key)
			}
		}
		// Encode sorts keys, keeping variant URLs stable
		u.RawQuery = q.Encode()
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}

	return u.String(), nil
}
