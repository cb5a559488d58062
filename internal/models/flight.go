package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form used by filters and forms.
const DateLayout = "2006-01-02"

// FlightRecord represents a flight as the admin API returns it
type FlightRecord struct {
	ID            string   `json:"_id,omitempty"`
	FlightNo      string   `json:"flightNo" validate:"required"`
	Airline       string   `json:"airline" validate:"required"`
	From          string   `json:"from" validate:"required"`
	To            string   `json:"to" validate:"required"`
	Category      Category `json:"category" validate:"required,oneof=Economy Business First"`
	TotalSeats    int      `json:"totalSeats" validate:"gte=0"`
	TotalPrice    float64  `json:"totalPrice" validate:"gte=0,money"`
	Date          string   `json:"date" validate:"required,calendardate"`
	DepartureTime string   `json:"departureTime" validate:"required,clock"`
	ArrivalTime   string   `json:"arrivalTime" validate:"required,clock"`
}

// DatePart returns the calendar-date portion of the raw date field,
// dropping any time-of-day component ("2024-05-01T00:00:00.000Z" -> "2024-05-01").
func (f FlightRecord) DatePart() string {
	return DatePart(f.Date)
}

// Day parses the calendar date. ok is false when the date is not a valid YYYY-MM-DD.
func (f FlightRecord) Day() (time.Time, bool) {
	t, err := time.Parse(DateLayout, f.DatePart())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DatePart strips everything from the first "T" on.
func DatePart(raw string) string {
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// Category is the cabin class of a flight
type Category string

const (
	CategoryEconomy  Category = "Economy"
	CategoryBusiness Category = "Business"
	CategoryFirst    Category = "First"
)

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryEconomy, CategoryBusiness, CategoryFirst}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEconomy, CategoryBusiness, CategoryFirst:
		return true
	}
	return false
}

// SearchRequest is the body of POST /api/searchFlight
type SearchRequest struct {
	From     string `json:"from" validate:"required"`
	To       string `json:"to" validate:"required"`
	Date     string `json:"date" validate:"required,calendardate"`
	Category string `json:"category" validate:"required"`
}

// FlightsResponse wraps every endpoint that returns a flight collection
type FlightsResponse struct {
	Flights []FlightRecord `json:"flights"`
	Message string         `json:"message,omitempty"`
}

// MessageResponse is the body of mutation endpoints and of every error
type MessageResponse struct {
	Message string `json:"message"`
}
