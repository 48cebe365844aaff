// File: internal/sonar/types.go
package sonar

// Hotspot is one security-relevant code location as reported by the server.
// Values are immutable once fetched.
//
// RuleKey, Component, Line and Message are required by the aggregation
// stage; the remaining fields are optional and substituted downstream.
// Line is a pointer so an omitted line is distinguishable from line 0.
type Hotspot struct {
	Key                      string `json:"key,omitempty"`
	RuleKey                  string `json:"ruleKey"`
	VulnerabilityProbability string `json:"vulnerabilityProbability,omitempty"`
	Status                   string `json:"status,omitempty"`
	SecurityCategory         string `json:"securityCategory,omitempty"`
	Component                string `json:"component"`
	Line                     *int   `json:"line,omitempty"`
	Message                  string `json:"message"`
}

// Component is a source artifact (file or module) referenced by hotspots
// through its key. Components are referenced, never owned.
type Component struct {
	Key      string `json:"key"`
	LongName string `json:"longName"`
}

// Paging is the pagination metadata echoed by the server on every page.
// An absent paging object decodes to the zero value.
type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// SearchResponse is the raw result of one page request against the
// hotspot search endpoint. Both slices may be absent.
type SearchResponse struct {
	Paging     Paging      `json:"paging"`
	Hotspots   []Hotspot   `json:"hotspots"`
	Components []Component `json:"components"`
}

// ResultSet is the accumulation of every page fetched for one project.
// Hotspots keep arrival order across pages and are never deduplicated;
// Components may repeat across pages, and lookups over them are
// last-write-wins by key. Paging reflects the last page index reached,
// the configured page size, and the number of hotspots actually
// collected, not the server's self-reported total.
type ResultSet struct {
	Paging     Paging      `json:"paging"`
	Hotspots   []Hotspot   `json:"hotspots"`
	Components []Component `json:"components"`
}
