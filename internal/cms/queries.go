package cms

import (
	"fmt"
	"strings"

	"bydupdates/internal/content"
)

const (
	// The backend currently exposes five FAQ and four fact pairs per entry.
	DefaultFAQFields  = 5
	DefaultFactFields = 4
	maxNumberedFields = content.MaxFAQPairs

	listLimit = 1000
)

func clampFields(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > maxNumberedFields {
		return maxNumberedFields
	}
	return n
}

const cardFields = `
      id
      slug
      title
      excerpt
      uri
      date
      modified
      featuredImage {
        node {
          sourceUrl
          altText
          mediaDetails { width height }
        }
      }
      author {
        node { name slug }
      }`

const detailFields = `
      id
      slug
      title
      content
      uri
      date
      modified
      featuredImage {
        node { sourceUrl altText }
      }
      author {
        node { id name slug uri }
      }
      seo {
        meta_title
        meta_description
        ogimage {
          node { sourceUrl }
        }
      }`

const countryDataFields = `
      countryData {
        country_name
        country_code
      }`

// numberedBlock renders e.g. "faq { faq_title_1 ... faq_value_n }".
func numberedBlock(block, prefix string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n      %s {", block)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "\n        %s_title_%d", prefix, i)
	}
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "\n        %s_value_%d", prefix, i)
	}
	b.WriteString("\n      }")
	return b.String()
}

func (c *Client) extraFields() string {
	return numberedBlock("faq", "faq", c.faqFields) + numberedBlock("fact", "fact", c.factFields)
}

func listQuery(name, field string, extra string) string {
	return fmt.Sprintf("query %s {\n  %s(first: %d) {\n    nodes {%s%s\n    }\n  }\n}", name, field, listLimit, cardFields, extra)
}

func (c *Client) detailQuery(name, alias, field string, extra string) string {
	selector := field
	if alias != "" {
		selector = alias + ": " + field
	}
	return fmt.Sprintf("query %s($slug: ID!) {\n  %s(id: $slug, idType: SLUG) {%s%s%s\n  }\n}",
		name, selector, detailFields, extra, c.extraFields())
}

func blogsQuery() string       { return listQuery("GetAllBlogs", "allBlogs", "\n      seo { meta_description }") }
func modelsQuery() string      { return listQuery("GetAllModels", "models", "") }
func comparisonsQuery() string { return listQuery("GetComparisons", "comparisons", "") }
func countriesQuery() string   { return listQuery("GetCountries", "countries", countryDataFields) }

func (c *Client) blogQuery() string       { return c.detailQuery("GetBlog", "blog", "blogs", "") }
func (c *Client) modelQuery() string      { return c.detailQuery("GetModel", "", "model", "") }
func (c *Client) comparisonQuery() string { return c.detailQuery("GetComparison", "", "comparison", "") }
func (c *Client) countryQuery() string    { return c.detailQuery("GetCountryBySlug", "", "country", countryDataFields) }
