// Package models holds the request-scoped record and envelope types served
// by the API. Dates travel as YYYY-MM-DD strings; nullable columns are
// pointers so null survives the round trip to JSON.
package models

type Project struct {
	ProjectID    string   `json:"project_id"`
	Name         *string  `json:"name"`
	Registry     string   `json:"registry"`
	Proponent    *string  `json:"proponent"`
	Protocol     []string `json:"protocol"`
	Category     []string `json:"category"`
	Status       *string  `json:"status"`
	Country      *string  `json:"country"`
	ListedAt     *string  `json:"listed_at"`
	IsCompliance *bool    `json:"is_compliance"`
	Retired      *int64   `json:"retired"`
	Issued       *int64   `json:"issued"`
	ProjectURL   *string  `json:"project_url"`
	Clips        []Clip   `json:"clips"`
}

type Credit struct {
	ID              int64           `json:"id"`
	ProjectID       *string         `json:"project_id"`
	Quantity        int64           `json:"quantity"`
	Vintage         *int            `json:"vintage"`
	TransactionDate *string         `json:"transaction_date"`
	TransactionType *string         `json:"transaction_type"`
	Projects        []CreditProject `json:"projects"`
}

// CreditProject is the slice of project context attached to each credit row.
type CreditProject struct {
	ProjectID *string  `json:"project_id"`
	Category  []string `json:"category"`
}

type Clip struct {
	ID          int64    `json:"id"`
	Date        *string  `json:"date"`
	Title       *string  `json:"title"`
	URL         *string  `json:"url"`
	Source      *string  `json:"source"`
	Tags        []string `json:"tags"`
	Notes       *string  `json:"notes"`
	IsWaybacked *bool    `json:"is_waybacked"`
	Type        string   `json:"type"`
	ProjectIDs  []string `json:"project_ids,omitempty"`
}

const (
	FileStatusPending = "pending"
	FileStatusSuccess = "success"
	FileStatusFailure = "failure"
)

const (
	FileCategoryProjects = "projects"
	FileCategoryCredits  = "credits"
	FileCategoryClips    = "clips"
	FileCategoryUnknown  = "unknown"
)

type File struct {
	ID          int64   `json:"id"`
	URL         string  `json:"url"`
	ContentHash *string `json:"content_hash"`
	Status      string  `json:"status"`
	Error       *string `json:"error"`
	RecordedAt  string  `json:"recorded_at"`
	Category    string  `json:"category"`
}

// BinnedValue is one chart row. Start/End are ISO dates or numbers depending
// on the binned attribute, and null for the reserved null/other bins.
type BinnedValue struct {
	Start    any     `json:"start"`
	End      any     `json:"end"`
	Category *string `json:"category"`
	Value    float64 `json:"value"`
}

// CategoryCount is a chart row without a bin dimension.
type CategoryCount struct {
	Category *string `json:"category"`
	Value    float64 `json:"value"`
}

// CreditCategoryCount carries both credit totals for one category.
type CreditCategoryCount struct {
	Category *string `json:"category"`
	Issued   float64 `json:"issued"`
	Retired  float64 `json:"retired"`
}
