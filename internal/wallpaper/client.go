package wallpaper

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"bingwall/internal/bing"

	"github.com/go-faster/errors"
)

// Fetcher retrieves raw image archive pages from the given base URL.
type Fetcher interface {
	List(ctx context.Context, baseURL string, q bing.ListQuery) (*bing.ListResponse, error)
}

// Query selects which wallpapers to fetch and how to size their URLs.
type Query struct {
	// Resolution, when set, is snapped to the nearest catalog entry and
	// embedded in each image URL.
	Resolution *Resolution

	// Count is the number of wallpapers to fetch, newest first. Defaults to 1.
	Count int

	// Index is the offset from today, in days.
	Index int

	// Market is a BCP 47 tag such as "en-US". Empty lets Bing pick.
	Market string
}

// Client fetches wallpapers and normalizes them against a resolution catalog.
type Client struct {
	baseURL string
	catalog []Resolution
	fetcher Fetcher
}

func New(baseURL string, fetcher Fetcher) (*Client, error) {
	c := &Client{
		catalog: DefaultCatalog(),
		fetcher: fetcher,
	}
	if err := c.SetBaseURL(baseURL); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetBaseURL replaces the URL image paths are resolved against. The URL must
// be absolute.
func (c *Client) SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.Wrapf(ErrInvalidURL, "%q", raw)
	}

	c.baseURL = strings.TrimSuffix(raw, "/")
	return nil
}

func (c *Client) Catalog() []Resolution {
	return slices.Clone(c.catalog)
}

// SetCatalog replaces the resolution catalog. Entries must be valid and kept
// in the order nearest-match tie-breaking should use.
func (c *Client) SetCatalog(catalog []Resolution) error {
	if len(catalog) == 0 {
		return errors.Wrap(ErrInvalidResolution, "empty catalog")
	}
	for _, r := range catalog {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	c.catalog = slices.Clone(catalog)
	return nil
}

// NearestResolution returns the last catalog entry that fits within r on both
// axes. Requests smaller than every catalog entry fail with
// ErrNoMatchingResolution.
func (c *Client) NearestResolution(r Resolution) (Resolution, error) {
	if err := r.Validate(); err != nil {
		return Resolution{}, err
	}

	var (
		nearest Resolution
		found   bool
	)
	for _, v := range c.catalog {
		if v.Width <= r.Width && v.Height <= r.Height {
			nearest = v
			found = true
		}
	}
	if !found {
		return Resolution{}, errors.Wrapf(ErrNoMatchingResolution, "%s", r)
	}

	return nearest, nil
}

// GetWallpaper fetches q.Count wallpapers and returns them normalized, newest
// first. All failures are returned as errors with their cause wrapped.
func (c *Client) GetWallpaper(ctx context.Context, q Query) ([]Image, error) {
	force := q.Resolution
	if force != nil {
		if err := force.Validate(); err != nil {
			return nil, err
		}
		if !slices.Contains(c.catalog, *force) {
			nearest, err := c.NearestResolution(*force)
			if err != nil {
				return nil, err
			}
			force = &nearest
		}
	}

	count := q.Count
	if count <= 0 {
		count = 1
	}

	lr, err := c.fetcher.List(ctx, c.baseURL, bing.ListQuery{Count: count, Index: q.Index, Market: q.Market})
	if err != nil {
		return nil, errors.Wrap(err, "fetch wallpapers")
	}

	images, err := c.format(lr, force)
	if err != nil {
		return nil, errors.Wrap(err, "format wallpapers")
	}

	return images, nil
}
