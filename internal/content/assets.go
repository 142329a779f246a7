// internal/content/assets.go
package content

import (
	"regexp"
	"strings"
)

const (
	DefaultLegacyPrefix = "/wp-content/uploads/"
	DefaultCDNBase      = "https://res.cloudinary.com/dcb6bxort/image/upload/"
)

// AssetRewriter moves legacy CMS upload URLs onto the CDN, keeping the path
// that follows the upload prefix.
type AssetRewriter struct {
	cdnBase   string
	legacyURL *regexp.Regexp
	srcAttr   *regexp.Regexp
	srcsetDQ  *regexp.Regexp
	srcsetSQ  *regexp.Regexp
}

// NewAssetRewriter builds a rewriter for URLs of the form
// http(s)://<any host><legacyPrefix><path>. Empty arguments select the defaults.
func NewAssetRewriter(legacyPrefix, cdnBase string) *AssetRewriter {
	if legacyPrefix == "" {
		legacyPrefix = DefaultLegacyPrefix
	}
	if cdnBase == "" {
		cdnBase = DefaultCDNBase
	}
	if !strings.HasSuffix(cdnBase, "/") {
		cdnBase += "/"
	}
	prefix := regexp.QuoteMeta("/" + strings.Trim(legacyPrefix, "/") + "/")
	return &AssetRewriter{
		cdnBase:   cdnBase,
		legacyURL: regexp.MustCompile(`https?://[^"'\s,/]+(?:/[^"'\s,]*?)?` + prefix + `([^"'\s,]+)`),
		srcAttr:   regexp.MustCompile(`(\ssrc=)(["'])([^"']*)(["'])`),
		srcsetDQ:  regexp.MustCompile(`(\ssrcset=")([^"]*)(")`),
		srcsetSQ:  regexp.MustCompile(`(\ssrcset=')([^']*)(')`),
	}
}

// RewriteURL maps a single legacy URL to the CDN. Other URLs are returned as is.
func (a *AssetRewriter) RewriteURL(u string) string {
	m := a.legacyURL.FindStringSubmatchIndex(u)
	if m == nil || m[0] != 0 || m[1] != len(u) {
		return u
	}
	return a.cdnBase + u[m[2]:m[3]]
}

// Rewrite updates every src and srcset attribute in an HTML string.
func (a *AssetRewriter) Rewrite(html string) string {
	if !strings.Contains(html, "src") {
		return html
	}
	html = a.srcAttr.ReplaceAllStringFunc(html, func(match string) string {
		sub := a.srcAttr.FindStringSubmatch(match)
		if len(sub) != 5 || sub[2] != sub[4] {
			return match
		}
		return sub[1] + sub[2] + a.RewriteURL(sub[3]) + sub[4]
	})
	for _, re := range []*regexp.Regexp{a.srcsetDQ, a.srcsetSQ} {
		re := re
		html = re.ReplaceAllStringFunc(html, func(match string) string {
			sub := re.FindStringSubmatch(match)
			if len(sub) != 4 {
				return match
			}
			return sub[1] + a.RewriteSrcset(sub[2]) + sub[3]
		})
	}
	return html
}

// RewriteSrcset rewrites every URL candidate of a srcset value. Descriptors,
// separators and ordering are left exactly as they were.
func (a *AssetRewriter) RewriteSrcset(srcset string) string {
	return a.legacyURL.ReplaceAllStringFunc(srcset, func(u string) string {
		sub := a.legacyURL.FindStringSubmatch(u)
		if len(sub) != 2 {
			return u
		}
		return a.cdnBase + sub[1]
	})
}
