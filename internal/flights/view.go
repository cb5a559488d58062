package flights

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrUnknownDimension = errors.New("unknown filter dimension")
	ErrUnknownSortKey   = errors.New("unknown sort key")
)

// Dimension names one of the table filters.
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionAirline  Dimension = "airline"
	DimensionDate     Dimension = "date"
)

// Filters are combined with AND. An empty field does not filter.
type Filters struct {
	Category string `json:"category,omitempty"`
	Airline  string `json:"airline,omitempty"`
	Date     string `json:"date,omitempty"`
}

// With returns a copy of f with one dimension replaced.
func (f Filters) With(d Dimension, value string) (Filters, error) {
	switch d {
	case DimensionCategory:
		f.Category = value
	case DimensionAirline:
		f.Airline = value
	case DimensionDate:
		f.Date = value
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	return f, nil
}

// Match reports whether r satisfies every set filter.
func (f Filters) Match(r models.FlightRecord) bool {
	if f.Category != "" && string(r.Category) != f.Category {
		return false
	}
	if f.Airline != "" {
		fold := cases.Fold()
		if !strings.Contains(fold.String(r.Airline), fold.String(f.Airline)) {
			return false
		}
	}
	if f.Date != "" && r.DatePart() != models.DatePart(f.Date) {
		return false
	}
	return true
}

// SortKey selects the single ordering applied to the table.
type SortKey string

const (
	SortNone     SortKey = ""
	SortDate     SortKey = "date"
	SortAirline  SortKey = "airline"
	SortFlightNo SortKey = "flightNo"
	SortSeats    SortKey = "seats"
	SortPrice    SortKey = "price"
)

var SortKeys = []SortKey{SortNone, SortDate, SortAirline, SortFlightNo, SortSeats, SortPrice}

// ParseSortKey accepts the key names above; "none" and "" both mean SortNone.
func ParseSortKey(s string) (SortKey, error) {
	if s == "none" {
		return SortNone, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// Apply returns the records of collection matching f, ordered by key.
// The input is never modified. Sorting is stable, so records that compare
// equal keep their fetch order.
func Apply(collection []models.FlightRecord, f Filters, key SortKey) []models.FlightRecord {
	out := make([]models.FlightRecord, 0, len(collection))
	for _, r := range collection {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	if cmpFn := comparator(key); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

func comparator(key SortKey) func(a, b models.FlightRecord) int {
	switch key {
	case SortDate:
		return compareDates
	case SortAirline:
		c := collate.New(language.English)
		return func(a, b models.FlightRecord) int {
			return c.CompareString(a.Airline, b.Airline)
		}
	case SortFlightNo:
		c := collate.New(language.English)
		return func(a, b models.FlightRecord) int {
			return c.CompareString(a.FlightNo, b.FlightNo)
		}
	case SortSeats:
		return func(a, b models.FlightRecord) int {
			return cmp.Compare(a.TotalSeats, b.TotalSeats)
		}
	case SortPrice:
		return func(a, b models.FlightRecord) int {
			return cmp.Compare(a.TotalPrice, b.TotalPrice)
		}
	}
	return nil
}

// compareDates orders by calendar date. Unparseable dates go last and
// compare equal to each other.
func compareDates(a, b models.FlightRecord) int {
	da, okA := a.Day()
	db, okB := b.Day()
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}
