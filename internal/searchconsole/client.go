package searchconsole

import (
	"context"
	"fmt"

	gsc "google.golang.org/api/searchconsole/v1"
)

// MaxRowLimit is the largest row count a single search analytics query
// may request.
const MaxRowLimit = 25000

// Client wraps the Search Console service for one account.
type Client struct {
	svc     *gsc.Service
	account string
}

// NewClient creates a Client around an authenticated service.
func NewClient(svc *gsc.Service, account string) *Client {
	return &Client{svc: svc, account: account}
}

// Account returns the account id this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// ListSites lists all properties the account has access to.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	resp, err := c.svc.Sites.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	sites := make([]Site, 0, len(resp.SiteEntry))
	for _, entry := range resp.SiteEntry {
		sites = append(sites, Site{
			SiteURL:         entry.SiteUrl,
			PermissionLevel: entry.PermissionLevel,
		})
	}
	return sites, nil
}

// Query runs a search analytics query against the site, falling back to
// the domain property form on a permission error.
func (c *Client) Query(ctx context.Context, siteURL string, req QueryRequest) (*QueryResult, error) {
	apiReq := &gsc.SearchAnalyticsQueryRequest{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Dimensions:      req.Dimensions,
		Type:            req.SearchType,
		AggregationType: req.AggregationType,
		RowLimit:        req.RowLimit,
		StartRow:        req.StartRow,
		DataState:       req.DataState,
	}
	if len(req.Filters) > 0 {
		group := &gsc.ApiDimensionFilterGroup{GroupType: "and"}
		for _, f := range req.Filters {
			group.Filters = append(group.Filters, &gsc.ApiDimensionFilter{
				Dimension:  f.Dimension,
				Operator:   f.Operator,
				Expression: f.Expression,
			})
		}
		apiReq.DimensionFilterGroups = []*gsc.ApiDimensionFilterGroup{group}
	}

	resp, err := withPropertyFallback(siteURL, func(site string) (*gsc.SearchAnalyticsQueryResponse, error) {
		return c.svc.Searchanalytics.Query(site, apiReq).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("search analytics query failed for %s: %w", siteURL, err)
	}

	result := &QueryResult{
		Rows:                    make([]Row, 0, len(resp.Rows)),
		ResponseAggregationType: resp.ResponseAggregationType,
	}
	for _, row := range resp.Rows {
		result.Rows = append(result.Rows, Row{
			Keys:        row.Keys,
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			CTR:         row.Ctr,
			Position:    row.Position,
		})
	}
	return result, nil
}

// ListSitemaps lists the sitemaps submitted for the site, falling back
// to the domain property form on a permission error.
func (c *Client) ListSitemaps(ctx context.Context, siteURL string) ([]Sitemap, error) {
	resp, err := withPropertyFallback(siteURL, func(site string) (*gsc.SitemapsListResponse, error) {
		return c.svc.Sitemaps.List(site).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sitemaps for %s: %w", siteURL, err)
	}

	sitemaps := make([]Sitemap, 0, len(resp.Sitemap))
	for _, sm := range resp.Sitemap {
		out := Sitemap{
			Path:            sm.Path,
			LastSubmitted:   sm.LastSubmitted,
			LastDownloaded:  sm.LastDownloaded,
			IsPending:       sm.IsPending,
			IsSitemapsIndex: sm.IsSitemapsIndex,
			Warnings:        sm.Warnings,
			Errors:          sm.Errors,
		}
		for _, content := range sm.Contents {
			out.Contents = append(out.Contents, SitemapContent{
				Type:      content.Type,
				Submitted: content.Submitted,
				Indexed:   content.Indexed,
			})
		}
		sitemaps = append(sitemaps, out)
	}
	return sitemaps, nil
}

// SubmitSitemap submits a sitemap for the site, falling back to the
// domain property form on a permission error.
func (c *Client) SubmitSitemap(ctx context.Context, siteURL, feedpath string) error {
	_, err := withPropertyFallback(siteURL, func(site string) (struct{}, error) {
		return struct{}{}, c.svc.Sitemaps.Submit(site, feedpath).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to submit sitemap %s for %s: %w", feedpath, siteURL, err)
	}
	return nil
}

// InspectURL inspects a page URL within the property. Inspection
// addresses a full page URL rather than a site property, so the domain
// property fallback does not apply.
func (c *Client) InspectURL(ctx context.Context, siteURL, inspectionURL, languageCode string) (*InspectionResult, error) {
	resp, err := c.svc.UrlInspection.Index.Inspect(&gsc.InspectUrlIndexRequest{
		SiteUrl:       siteURL,
		InspectionUrl: inspectionURL,
		LanguageCode:  languageCode,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", inspectionURL, err)
	}

	raw := resp.InspectionResult
	if raw == nil {
		return &InspectionResult{}, nil
	}

	result := &InspectionResult{InspectionResultLink: raw.InspectionResultLink}
	if idx := raw.IndexStatusResult; idx != nil {
		result.IndexStatus = &IndexStatus{
			Verdict:         idx.Verdict,
			CoverageState:   idx.CoverageState,
			RobotsTxtState:  idx.RobotsTxtState,
			IndexingState:   idx.IndexingState,
			LastCrawlTime:   idx.LastCrawlTime,
			PageFetchState:  idx.PageFetchState,
			GoogleCanonical: idx.GoogleCanonical,
			UserCanonical:   idx.UserCanonical,
			CrawledAs:       idx.CrawledAs,
			ReferringURLs:   idx.ReferringUrls,
			Sitemaps:        idx.Sitemap,
		}
	}
	if mob := raw.MobileUsabilityResult; mob != nil {
		result.MobileUsability = &VerdictResult{Verdict: mob.Verdict}
	}
	if rich := raw.RichResultsResult; rich != nil {
		status := &RichResultsStatus{Verdict: rich.Verdict}
		for _, item := range rich.DetectedItems {
			status.DetectedItems = append(status.DetectedItems, item.RichResultType)
		}
		result.RichResults = status
	}
	if amp := raw.AmpResult; amp != nil {
		result.AMP = &VerdictResult{Verdict: amp.Verdict}
	}
	return result, nil
}
