package cms

import (
	"context"
	"fmt"
)

type nodes struct {
	Nodes []Entry `json:"nodes"`
}

func (c *Client) list(ctx context.Context, query, field string) ([]Entry, error) {
	var data map[string]*nodes
	if err := c.Query(ctx, query, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", field, err)
	}
	if n := data[field]; n != nil {
		return n.Nodes, nil
	}
	return nil, nil
}

// one fetches a single entry; a missing entry is (nil, nil).
func (c *Client) one(ctx context.Context, query, field, slug string) (*Entry, error) {
	var data map[string]*Entry
	if err := c.Query(ctx, query, map[string]any{"slug": slug}, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch %s %q: %w", field, slug, err)
	}
	return data[field], nil
}

func (c *Client) Blogs(ctx context.Context) ([]Entry, error) {
	return c.list(ctx, blogsQuery(), "allBlogs")
}

func (c *Client) Blog(ctx context.Context, slug string) (*Entry, error) {
	return c.one(ctx, c.blogQuery(), "blog", slug)
}

func (c *Client) Models(ctx context.Context) ([]Entry, error) {
	return c.list(ctx, modelsQuery(), "models")
}

func (c *Client) Model(ctx context.Context, slug string) (*Entry, error) {
	return c.one(ctx, c.modelQuery(), "model", slug)
}

func (c *Client) Comparisons(ctx context.Context) ([]Entry, error) {
	return c.list(ctx, comparisonsQuery(), "comparisons")
}

func (c *Client) Comparison(ctx context.Context, slug string) (*Entry, error) {
	return c.one(ctx, c.comparisonQuery(), "comparison", slug)
}

func (c *Client) Countries(ctx context.Context) ([]Entry, error) {
	return c.list(ctx, countriesQuery(), "countries")
}

// CountryEntry fetches the country-specific version of a model page.
func (c *Client) CountryEntry(ctx context.Context, slug string) (*Entry, error) {
	return c.one(ctx, c.countryQuery(), "country", slug)
}
