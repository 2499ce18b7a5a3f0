// Package api contains the request and response contracts of the HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"net/url"
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// StatusSuccess is the status of every successful response envelope
const StatusSuccess = "success"

// RowQueryRequest holds the narrowing query parameters shared by every data endpoint
type RowQueryRequest struct {
	Search   string `json:"search" query:"search" validate:"max=200"`
	Sector   string `json:"sector" query:"sector" validate:"max=200"`
	Role     string `json:"role" query:"role" validate:"max=200"`
	Shift    string `json:"shift" query:"shift" validate:"max=200"`
	Phase    string `json:"phase" query:"phase" validate:"max=200"`
	Domain   string `json:"domain" query:"domain" validate:"max=200"`
	Response string `json:"response" query:"response" validate:"max=200"`
}

// RowQueryFromValues reads a RowQueryRequest from URL query values
func RowQueryFromValues(q url.Values) RowQueryRequest {
	return RowQueryRequest{
		Search:   q.Get("search"),
		Sector:   q.Get("sector"),
		Role:     q.Get("role"),
		Shift:    q.Get("shift"),
		Phase:    q.Get("phase"),
		Domain:   q.Get("domain"),
		Response: q.Get("response"),
	}
}

// Query converts the request into a domain query
func (r RowQueryRequest) Query() domain.RowQuery {
	return domain.RowQuery{
		Search: r.Search,
		Filters: domain.FieldFilters{
			Sector:   r.Sector,
			Role:     r.Role,
			Shift:    r.Shift,
			Phase:    r.Phase,
			Domain:   r.Domain,
			Response: r.Response,
		},
	}
}

// TransactionSortRequest selects the ordering of grouped transactions
type TransactionSortRequest struct {
	Sort  string `json:"sort" query:"sort" validate:"omitempty,oneof=id timestamp sector role shift phase count average_weight conformance"`
	Order string `json:"order" query:"order" validate:"omitempty,oneof=asc desc"`
}

// TransactionSortFromValues reads a TransactionSortRequest; order is case-insensitive
func TransactionSortFromValues(q url.Values) TransactionSortRequest {
	return TransactionSortRequest{
		Sort:  q.Get("sort"),
		Order: strings.ToLower(q.Get("order")),
	}
}

// TransactionSort converts the request into a domain sort
func (r TransactionSortRequest) TransactionSort() domain.TransactionSort {
	return domain.TransactionSort{
		Key:       domain.TransactionSortKey(r.Sort),
		Direction: domain.SortDirection(r.Order),
	}
}

// FieldRequest names the categorical column of a breakdown or weight view
type FieldRequest struct {
	Field string `json:"field" param:"field" validate:"required,categorical"`
}

// DataResponse is the envelope of list and aggregate responses
type DataResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Count  int         `json:"count"`
}

// StatusResponse is the envelope of snapshot status responses
type StatusResponse struct {
	Status string                `json:"status"`
	Data   domain.SnapshotStatus `json:"data"`
}
