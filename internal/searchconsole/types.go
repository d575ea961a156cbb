package searchconsole

// Site is a Search Console property the account has access to.
type Site struct {
	SiteURL         string `json:"siteUrl"`
	PermissionLevel string `json:"permissionLevel"`
}

// DimensionFilter restricts a search analytics query on one dimension.
type DimensionFilter struct {
	Dimension  string `json:"dimension"`
	Operator   string `json:"operator"`
	Expression string `json:"expression"`
}

// QueryRequest describes a search analytics query against one site.
type QueryRequest struct {
	StartDate       string
	EndDate         string
	Dimensions      []string
	SearchType      string
	AggregationType string
	RowLimit        int64
	StartRow        int64
	DataState       string
	Filters         []DimensionFilter
}

// Row is one search analytics result row. Keys holds the dimension
// values in the order the dimensions were requested. CTR is a fraction
// between 0 and 1 as returned by the API.
type Row struct {
	Keys        []string `json:"keys,omitempty"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// QueryResult is the outcome of a search analytics query.
type QueryResult struct {
	Rows                    []Row  `json:"rows"`
	ResponseAggregationType string `json:"responseAggregationType,omitempty"`
}

// Sitemap describes one submitted sitemap for a site.
type Sitemap struct {
	Path            string           `json:"path"`
	LastSubmitted   string           `json:"lastSubmitted,omitempty"`
	LastDownloaded  string           `json:"lastDownloaded,omitempty"`
	IsPending       bool             `json:"isPending"`
	IsSitemapsIndex bool             `json:"isSitemapsIndex"`
	Warnings        int64            `json:"warnings"`
	Errors          int64            `json:"errors"`
	Contents        []SitemapContent `json:"contents,omitempty"`
}

// SitemapContent summarizes one content type within a sitemap.
type SitemapContent struct {
	Type      string `json:"type"`
	Submitted int64  `json:"submitted"`
	Indexed   int64  `json:"indexed"`
}

// InspectionResult is the index status of one URL within a property.
type InspectionResult struct {
	InspectionResultLink string             `json:"inspectionResultLink,omitempty"`
	IndexStatus          *IndexStatus       `json:"indexStatus,omitempty"`
	MobileUsability      *VerdictResult     `json:"mobileUsability,omitempty"`
	RichResults          *RichResultsStatus `json:"richResults,omitempty"`
	AMP                  *VerdictResult     `json:"amp,omitempty"`
}

// IndexStatus carries the coverage details of an inspected URL.
type IndexStatus struct {
	Verdict         string   `json:"verdict,omitempty"`
	CoverageState   string   `json:"coverageState,omitempty"`
	RobotsTxtState  string   `json:"robotsTxtState,omitempty"`
	IndexingState   string   `json:"indexingState,omitempty"`
	LastCrawlTime   string   `json:"lastCrawlTime,omitempty"`
	PageFetchState  string   `json:"pageFetchState,omitempty"`
	GoogleCanonical string   `json:"googleCanonical,omitempty"`
	UserCanonical   string   `json:"userCanonical,omitempty"`
	CrawledAs       string   `json:"crawledAs,omitempty"`
	ReferringURLs   []string `json:"referringUrls,omitempty"`
	Sitemaps        []string `json:"sitemaps,omitempty"`
}

// VerdictResult is a simple pass/fail verdict section.
type VerdictResult struct {
	Verdict string `json:"verdict,omitempty"`
}

// RichResultsStatus is the rich results section of an inspection.
type RichResultsStatus struct {
	Verdict       string   `json:"verdict,omitempty"`
	DetectedItems []string `json:"detectedItems,omitempty"`
}
