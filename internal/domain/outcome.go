package domain

// FetchStatus is the state of a single breadcrumb fetch
type FetchStatus int

const (
	StatusFound FetchStatus = iota
	StatusNotFound
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Raw category values written for the two sentinel states
const (
	RawCategoryNotFound = "Category Not Found"
	RawCategoryFailed   = "Request Failed"
)

// RawCategoryResult is what one fetch attempt produced. Text is set only for StatusFound,
// Err only for StatusFailed.
type RawCategoryResult struct {
	Status FetchStatus
	Text   string
	Err    error
}

func Found(text string) RawCategoryResult {
	return RawCategoryResult{Status: StatusFound, Text: text}
}

func NotFound() RawCategoryResult {
	return RawCategoryResult{Status: StatusNotFound}
}

func Failed(err error) RawCategoryResult {
	return RawCategoryResult{Status: StatusFailed, Err: err}
}

// Raw returns the breadcrumb text or the sentinel label for the result
func (r RawCategoryResult) Raw() string {
	switch r.Status {
	case StatusFound:
		return r.Text
	case StatusNotFound:
		return RawCategoryNotFound
	default:
		return RawCategoryFailed
	}
}

// CategoryOutcome is one row of the labeled dataset
type CategoryOutcome struct {
	ProductID            string `json:"product_id"`
	RawCategory          string `json:"raw_category"`
	StandardizedCategory string `json:"standardized_category"`
	Text                 string `json:"aggregated_text"`
}

// Labeled reports whether the outcome carries a taxonomy category
func (o CategoryOutcome) Labeled() bool {
	return o.StandardizedCategory != Uncategorized
}
