package domain

// FieldFilters narrows a row set. Empty values are ignored; set values combine with AND.
type FieldFilters struct {
	Sector   string `json:"sector,omitempty"`
	Role     string `json:"role,omitempty"`
	Shift    string `json:"shift,omitempty"`
	Phase    string `json:"phase,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Response string `json:"response,omitempty"`
}

// IsEmpty reports whether no filter is set
func (f FieldFilters) IsEmpty() bool {
	return f == FieldFilters{}
}

// RowQuery is the full set of viewer-controlled narrowing applied before aggregation
type RowQuery struct {
	Search  string       `json:"search,omitempty"`
	Filters FieldFilters `json:"filters"`
}

// TransactionSortKey names the column grouped transactions are ordered by
type TransactionSortKey string

const (
	SortByID            TransactionSortKey = "id"
	SortByTimestamp     TransactionSortKey = "timestamp"
	SortBySector        TransactionSortKey = "sector"
	SortByRole          TransactionSortKey = "role"
	SortByShift         TransactionSortKey = "shift"
	SortByPhase         TransactionSortKey = "phase"
	SortByCount         TransactionSortKey = "count"
	SortByAverageWeight TransactionSortKey = "average_weight"
	SortByConformance   TransactionSortKey = "conformance"
)

// SortDirection is ascending or descending
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// TransactionSort is a caller-supplied ordering for grouped transactions
type TransactionSort struct {
	Key       TransactionSortKey `json:"key" validate:"omitempty,oneof=id timestamp sector role shift phase count average_weight conformance"`
	Direction SortDirection      `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// WeightMode selects summed or averaged weight rollups
type WeightMode string

const (
	WeightModeSum     WeightMode = "sum"
	WeightModeAverage WeightMode = "average"
)
