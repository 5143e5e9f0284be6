package domain

// Flag filter values accepted by the Responsive answer-library search.
const (
	FlagFilterAll       = "ALL"
	FlagFilterStarred   = "STARRED"
	FlagFilterUnstarred = "UNSTARRED"
)

// Defaults applied to omitted search parameters.
const (
	DefaultCursor     = "*"
	DefaultFlagFilter = FlagFilterAll
	DefaultLimit      = 25
	DefaultStarRating = 0
)

// SearchRequest is the complete payload for the Responsive answer-library
// search endpoint. Field order matches the wire shape the API expects, and
// every field is always serialized, defaults included, so the API receives
// a stable, fully populated body on every call.
type SearchRequest struct {
	Keyword        string                 `json:"keyword"`
	Approvers      []string               `json:"approvers"`
	BusinessUnits  []string               `json:"businessUnits"`
	CollectionList []string               `json:"collectionList"`
	Cursor         string                 `json:"cursor"`
	CustomFields   map[string]interface{} `json:"customFields"`
	FacetFields    []string               `json:"facetFields"`
	FlagFilter     string                 `json:"flagFilter"`
	HasAlertText   bool                   `json:"hasAlertText"`
	HasAttachment  bool                   `json:"hasAttachment"`
	HasImage       bool                   `json:"hasImage"`
	HasOpenComment bool                   `json:"hasOpenComment"`
	IDsList        []string               `json:"idsList"`
	LanguageSearch []string               `json:"languageSearch"`
	LastUpdatedBy  []string               `json:"lastUpdatedBy"`
	Limit          int                    `json:"limit"`
	Metadata       bool                   `json:"metadata"`
	Owners         []string               `json:"owners"`
	ProjectSearch  []string               `json:"projectSearch"`
	SectionSearch  []string               `json:"sectionSearch"`
	StarRating     int                    `json:"starRating"`
	TagSearch      []string               `json:"tagSearch"`
}

// NewSearchRequest returns a SearchRequest with every optional field set
// to its documented default. List and map fields are allocated empty so
// they serialize as [] and {} rather than null.
func NewSearchRequest() *SearchRequest {
	return &SearchRequest{
		Approvers:      []string{},
		BusinessUnits:  []string{},
		CollectionList: []string{},
		Cursor:         DefaultCursor,
		CustomFields:   map[string]interface{}{},
		FacetFields:    []string{},
		FlagFilter:     DefaultFlagFilter,
		IDsList:        []string{},
		LanguageSearch: []string{},
		LastUpdatedBy:  []string{},
		Limit:          DefaultLimit,
		Owners:         []string{},
		ProjectSearch:  []string{},
		SectionSearch:  []string{},
		StarRating:     DefaultStarRating,
		TagSearch:      []string{},
	}
}

// ValidFlagFilter reports whether the value is an accepted flag filter.
func ValidFlagFilter(value string) bool {
	switch value {
	case FlagFilterAll, FlagFilterStarred, FlagFilterUnstarred:
		return true
	default:
		return false
	}
}

// SearchParameterNames lists every search_content parameter in wire order.
// The tool schema and the serialized SearchRequest expose exactly this set.
var SearchParameterNames = []string{
	"keyword",
	"approvers",
	"businessUnits",
	"collectionList",
	"cursor",
	"customFields",
	"facetFields",
	"flagFilter",
	"hasAlertText",
	"hasAttachment",
	"hasImage",
	"hasOpenComment",
	"idsList",
	"languageSearch",
	"lastUpdatedBy",
	"limit",
	"metadata",
	"owners",
	"projectSearch",
	"sectionSearch",
	"starRating",
	"tagSearch",
}
