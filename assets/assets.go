// Copyright (c) 2024 The EDITO-Infra Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This package inspects a record's declared links and decides which of them
// become STAC assets, and which of those qualify as data assets.
package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// an asset derived from a qualifying link
type Asset struct {
	// the link target (possibly rewritten to a direct download)
	URL string
	// the short media-type label keying the asset in a STAC item
	Kind string
	// a human-readable title
	Title string
	// the resolved mime type
	MediaType string
	// the normalized role set
	Roles []Role
	// whether the URL answered the liveness probe
	Live bool
}

// the outcome of classifying one record's links
type Classification struct {
	// every asset attachable to the record's STAC item
	Assets []Asset
	// the subset of Assets qualifying as data assets (role set exactly
	// {data}, URL live)
	DataAssets []Asset
	// candidate data links whose URL failed the liveness probe, kept for
	// diagnostics
	Dead []string
}

// IsDataAsset reports whether a link with the given normalized role set and
// liveness result qualifies as a data asset. It is a pure function of its
// arguments: a link qualifies iff its role set is exactly {data} and its
// URL is reachable.
func IsDataAsset(roles []Role, live bool) bool {
	return live && len(roles) == 1 && roles[0] == RoleData
}

// Classify inspects the given links, resolves a media type and role set for
// each, probes the links for liveness, and returns the record's asset
// collection. Links with no resolvable media type are dropped; a dead link
// never aborts classification.
func Classify(ctx context.Context, recordId string, links []csw.Link, prober Prober) Classification {
	var result Classification
	seen := make(map[string]bool)

	for _, link := range links {
		if link.URL == "" {
			slog.Warn(fmt.Sprintf("Record %s: link with no URL, skipping", recordId))
			continue
		}

		assetURL, mediaType, ok := resolveLink(link)
		if !ok {
			slog.Warn(fmt.Sprintf("Record %s: no media type for link %s, skipping",
				recordId, link.URL))
			continue
		}
		if seen[assetURL] {
			continue
		}
		seen[assetURL] = true

		roles := rolesForLink(link, mediaType)
		live := prober.Probe(ctx, assetURL)
		asset := Asset{
			URL:       assetURL,
			Kind:      mediaType.Kind,
			Title:     assetTitle(link, mediaType),
			MediaType: mediaType.MIME,
			Roles:     roles,
			Live:      live,
		}

		if IsDataAsset(roles, live) {
			result.Assets = append(result.Assets, asset)
			result.DataAssets = append(result.DataAssets, asset)
			slog.Info(fmt.Sprintf("Record %s: data asset %s (%s)", recordId,
				assetURL, mediaType.Kind))
			continue
		}
		if !live {
			if len(roles) == 1 && roles[0] == RoleData {
				result.Dead = append(result.Dead, assetURL)
			}
			slog.Warn(fmt.Sprintf("Record %s: link %s unreachable, excluded",
				recordId, assetURL))
			continue
		}
		// live, but not a data asset: attach for informational purposes
		result.Assets = append(result.Assets, asset)
	}
	return result
}

// resolves a link's media type, applying provider-specific URL rewrites
// that turn landing pages into direct downloads
func resolveLink(link csw.Link) (string, MediaType, bool) {
	mediaType, ok := Resolve(link.URL, link.Protocol)
	if !ok {
		return link.URL, MediaType{}, false
	}

	assetURL := link.URL
	switch mediaType.Kind {
	case "iptresource":
		if rewritten, ok := RewriteIPTResource(assetURL); ok {
			assetURL = rewritten
			mediaType, _ = Resolve(assetURL, "")
		}
	case "eurobistoolbox":
		if rewritten, ok := RewriteEurobisToolbox(assetURL); ok {
			assetURL = rewritten
			mediaType, _ = Resolve(assetURL, "")
		}
	}
	return assetURL, mediaType, true
}

// determines a link's role set: a declared role wins over the one implied
// by the media type, unless it normalizes to "unknown"
func rolesForLink(link csw.Link, mediaType MediaType) []Role {
	if declared := NormalizeRole(link.Description); declared != RoleUnknown {
		return []Role{declared}
	}
	if len(mediaType.Roles) > 0 {
		return mediaType.Roles
	}
	return []Role{RoleUnknown}
}

// picks a title for the asset, preferring the link's declared name
func assetTitle(link csw.Link, mediaType MediaType) string {
	if link.Name != "" {
		return link.Name
	}
	return mediaType.Title
}
