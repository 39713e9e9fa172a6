package domain

import "time"

// SourceKind identifies which class of provider produced a candidate.
type SourceKind string

const (
	SourceArchive SourceKind = "archive"
	SourceClip    SourceKind = "clip"
)

// ResolvedTitle is the metadata provider's best-known canonical title for a
// free-text query, with an optional cover image.
type ResolvedTitle struct {
	CanonicalTitle string
	CoverImageURL  string
}

// Candidate is a provisional hit from a single provider, before asset
// expansion. DirectLink is populated for clip candidates only; archive
// candidates are expanded into verified assets later.
type Candidate struct {
	Source     SourceKind
	Identifier string
	Title      string
	DirectLink string
}

// Asset is a verified, directly fetchable media file belonging to one
// archive candidate.
type Asset struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// PresentableItem is one entry of the final response. Clip items carry a
// direct link; archive items carry verified assets, or a fallback link to the
// provider's item page when no asset survived verification.
type PresentableItem struct {
	Kind         SourceKind `json:"kind"`
	Title        string     `json:"title"`
	Link         string     `json:"link,omitempty"`
	Assets       []Asset    `json:"assets,omitempty"`
	FallbackLink string     `json:"fallbackLink,omitempty"`
}

type ProviderInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

type ProviderStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type ProviderDiagnostics struct {
	Name                string     `json:"name"`
	Label               string     `json:"label"`
	Kind                string     `json:"kind"`
	Enabled             bool       `json:"enabled"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
	LastSuccessAt       *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *time.Time `json:"lastFailureAt,omitempty"`
	LastLatencyMS       int64      `json:"lastLatencyMs,omitempty"`
	LastTimeout         bool       `json:"lastTimeout,omitempty"`
	LastQuery           string     `json:"lastQuery,omitempty"`
	TotalRequests       int64      `json:"totalRequests,omitempty"`
	TotalFailures       int64      `json:"totalFailures,omitempty"`
	TimeoutCount        int64      `json:"timeoutCount,omitempty"`
}

// ResponseModel is the assembled answer for one query. Items are capped and
// ordered by provider priority (archive before clip), then provider order.
type ResponseModel struct {
	Query         string            `json:"query"`
	DisplayTitle  string            `json:"displayTitle"`
	CoverImageURL string            `json:"coverImageUrl,omitempty"`
	Items         []PresentableItem `json:"items"`
	Providers     []ProviderStatus  `json:"providers"`
	ElapsedMS     int64             `json:"elapsedMs"`
}
