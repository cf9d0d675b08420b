package juiceshop

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/dimasma0305/juicectf/function/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

var urlPattern = regexp.MustCompile(`^\w+://.+`)

// snippetWorkers bounds the concurrent requests to /snippets/{key}.
const snippetWorkers = 8

func IsUrl(s string) bool {
	return urlPattern.MatchString(s)
}

// FetchChallenges retrieves every challenge of the shop, in API order.
func (cs *Client) FetchChallenges(ctx context.Context) ([]*Challenge, error) {
	var body struct {
		Status string       `json:"status"`
		Data   []*Challenge `json:"data"`
	}
	u, err := cs.shopPath("api", "Challenges")
	if err == nil {
		err = cs.get(ctx, u, &body)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch challenges from API! %w", err)
	}
	return body.Data, nil
}

// FetchSecretKey downloads the key file when origin is a URL and returns
// origin itself otherwise.
func (cs *Client) FetchSecretKey(ctx context.Context, origin string) (string, error) {
	if origin == "" || !IsUrl(origin) {
		return origin, nil
	}
	b, err := cs.getBytes(ctx, origin)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch secret key from URL! %w", err)
	}
	return string(b), nil
}

// FetchCountryMapping loads ctf.countryMapping from the first YAML document
// at mappingUrl. An empty mappingUrl yields an empty mapping.
func (cs *Client) FetchCountryMapping(ctx context.Context, mappingUrl string) (CountryMapping, error) {
	if mappingUrl == "" {
		return CountryMapping{}, nil
	}
	b, err := cs.getBytes(ctx, mappingUrl)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch country mapping from API! %w", err)
	}
	mapping, err := ParseCountryMapping(b)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch country mapping from API! %w", err)
	}
	return mapping, nil
}

func ParseCountryMapping(b []byte) (CountryMapping, error) {
	var doc struct {
		Ctf struct {
			CountryMapping CountryMapping `yaml:"countryMapping"`
		} `yaml:"ctf"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshal yaml: %w", err)
	}
	if doc.Ctf.CountryMapping == nil {
		return nil, fmt.Errorf("no ctf.countryMapping found")
	}
	return doc.Ctf.CountryMapping, nil
}

// FetchCodeSnippets returns the vulnerable code snippet of every challenge
// that has one. Keys whose snippet request fails are left out.
func (cs *Client) FetchCodeSnippets(ctx context.Context) (VulnSnippets, error) {
	var index struct {
		Challenges []string `json:"challenges"`
	}
	u, err := cs.shopPath("snippets")
	if err == nil {
		err = cs.get(ctx, u, &index)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch snippet from API! %w", err)
	}
	if index.Challenges == nil {
		return nil, fmt.Errorf("Failed to fetch snippet from API! Invalid challenges format in response")
	}

	var (
		mu       sync.Mutex
		snippets = make(VulnSnippets, len(index.Challenges))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snippetWorkers)
	for _, key := range index.Challenges {
		key := key
		g.Go(func() error {
			var body struct {
				Snippet string `json:"snippet"`
			}
			u, err := cs.shopPath("snippets", key)
			if err != nil {
				return err
			}
			if err := cs.get(gctx, u, &body); err != nil {
				log.Debug("skip snippet %s: %v", key, err)
				return nil
			}
			if body.Snippet == "" {
				return nil
			}
			mu.Lock()
			snippets[key] = body.Snippet
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Failed to fetch snippet from API! %w", err)
	}
	return snippets, nil
}

// Resources are the remote inputs of one export run.
type Resources struct {
	Challenges     []*Challenge
	SecretKey      string
	CountryMapping CountryMapping
	VulnSnippets   VulnSnippets
}

// Report prints a short summary of what was fetched from shopUrl.
func (r *Resources) Report(shopUrl string) {
	log.Info("Fetched data from %s", shopUrl)
	log.InfoH2("%d challenges", len(r.Challenges))
	if len(r.CountryMapping) > 0 {
		log.InfoH2("%d country mappings", len(r.CountryMapping))
	}
	if len(r.VulnSnippets) > 0 {
		log.InfoH2("%d code snippets", len(r.VulnSnippets))
	}
}

// FetchRequest tells FetchAll where to look.
type FetchRequest struct {
	CtfKey         string
	CountryMapping string
	Snippets       bool
}

// FetchAll fetches challenges, secret key, country mapping and (optionally)
// snippets in parallel. A failed snippet fetch is reported through diag and
// replaced by an empty mapping; every other failure aborts.
func (cs *Client) FetchAll(ctx context.Context, fr FetchRequest, diag log.Diagnostics) (*Resources, error) {
	if diag == nil {
		diag = log.Console{}
	}
	res := &Resources{VulnSnippets: VulnSnippets{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		key, err := cs.FetchSecretKey(gctx, fr.CtfKey)
		res.SecretKey = key
		return err
	})
	g.Go(func() error {
		challenges, err := cs.FetchChallenges(gctx)
		res.Challenges = challenges
		return err
	})
	g.Go(func() error {
		mapping, err := cs.FetchCountryMapping(gctx, fr.CountryMapping)
		res.CountryMapping = mapping
		return err
	})
	if fr.Snippets {
		g.Go(func() error {
			snippets, err := cs.FetchCodeSnippets(gctx)
			if err != nil {
				diag.Warn("Warning: %s", err)
				return nil
			}
			res.VulnSnippets = snippets
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
