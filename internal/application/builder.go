package application

import (
	"fmt"

	"responsive-mcp-server/internal/domain"
)

// BuildSearchRequest validates tool-call arguments and produces a fully
// populated SearchRequest. Every omitted parameter receives its
// documented default, so the outbound payload always carries the
// complete, stable field set the Responsive API expects.
//
// Fails with an InvalidParams domain.Error when keyword is missing or
// not a string, when a list parameter is not a sequence of strings, or
// when any other parameter has the wrong type. No side effects.
func BuildSearchRequest(args map[string]interface{}) (*domain.SearchRequest, error) {
	req := domain.NewSearchRequest()

	keyword, present, err := stringParam(args, "keyword")
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: "missing required parameter: keyword",
		}
	}
	req.Keyword = keyword

	// List filters, in wire order.
	lists := []struct {
		name string
		dst  *[]string
	}{
		{"approvers", &req.Approvers},
		{"businessUnits", &req.BusinessUnits},
		{"collectionList", &req.CollectionList},
		{"facetFields", &req.FacetFields},
		{"idsList", &req.IDsList},
		{"languageSearch", &req.LanguageSearch},
		{"lastUpdatedBy", &req.LastUpdatedBy},
		{"owners", &req.Owners},
		{"projectSearch", &req.ProjectSearch},
		{"sectionSearch", &req.SectionSearch},
		{"tagSearch", &req.TagSearch},
	}
	for _, l := range lists {
		value, present, err := stringSliceParam(args, l.name)
		if err != nil {
			return nil, err
		}
		if present {
			*l.dst = value
		}
	}

	// Boolean filters.
	bools := []struct {
		name string
		dst  *bool
	}{
		{"hasAlertText", &req.HasAlertText},
		{"hasAttachment", &req.HasAttachment},
		{"hasImage", &req.HasImage},
		{"hasOpenComment", &req.HasOpenComment},
		{"metadata", &req.Metadata},
	}
	for _, b := range bools {
		value, present, err := boolParam(args, b.name)
		if err != nil {
			return nil, err
		}
		if present {
			*b.dst = value
		}
	}

	if cursor, present, err := stringParam(args, "cursor"); err != nil {
		return nil, err
	} else if present {
		// Pagination cursors pass through unchanged.
		req.Cursor = cursor
	}

	if customFields, present, err := mapParam(args, "customFields"); err != nil {
		return nil, err
	} else if present {
		req.CustomFields = customFields
	}

	if flagFilter, present, err := stringParam(args, "flagFilter"); err != nil {
		return nil, err
	} else if present {
		if !domain.ValidFlagFilter(flagFilter) {
			return nil, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("parameter flagFilter must be one of ALL, STARRED, UNSTARRED (got %q)", flagFilter),
			}
		}
		req.FlagFilter = flagFilter
	}

	if limit, present, err := intParam(args, "limit"); err != nil {
		return nil, err
	} else if present {
		req.Limit = limit
	}

	if starRating, present, err := intParam(args, "starRating"); err != nil {
		return nil, err
	} else if present {
		req.StarRating = starRating
	}

	return req, nil
}
