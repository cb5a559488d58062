package stubapi

import (
	"context"
	"fmt"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
)

// Seed accounts created by Seed.
const (
	SeedUser  = "alice"
	SeedAdmin = "admin"
)

// Seed fills repo with two accounts and a handful of flights.
func Seed(ctx context.Context, repo *Repository) error {
	users := []User{
		{
			UserProfile: models.UserProfile{
				Username: SeedUser, Email: "alice@example.com",
				FirstName: "Alice", LastName: "Sharma", Mobile: "9876543210", Address: "12 MG Road, Pune",
			},
			Role: RoleUser,
		},
		{
			UserProfile: models.UserProfile{
				Username: SeedAdmin, Email: "admin@example.com",
				FirstName: "Site", LastName: "Admin", Mobile: "9000000000", Address: "HQ",
			},
			Role: RoleAdmin,
		},
	}
	for _, u := range users {
		if err := repo.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	flights := []models.FlightRecord{
		{FlightNo: "AI-202", Airline: "Air India", From: "Delhi", To: "Mumbai", Category: models.CategoryEconomy,
			TotalSeats: 120, TotalPrice: 4500, Date: "2024-05-01T00:00:00.000Z", DepartureTime: "06:30", ArrivalTime: "08:40"},
		{FlightNo: "SG-101", Airline: "SpiceJet", From: "Delhi", To: "Goa", Category: models.CategoryEconomy,
			TotalSeats: 90, TotalPrice: 3900.5, Date: "2024-05-02T00:00:00.000Z", DepartureTime: "09:15", ArrivalTime: "11:45"},
		{FlightNo: "6E-303", Airline: "IndiGo", From: "Mumbai", To: "Bengaluru", Category: models.CategoryBusiness,
			TotalSeats: 24, TotalPrice: 12500, Date: "2024-05-01T00:00:00.000Z", DepartureTime: "14:00", ArrivalTime: "15:40"},
		{FlightNo: "UK-808", Airline: "Vistara", From: "Delhi", To: "Mumbai", Category: models.CategoryFirst,
			TotalSeats: 8, TotalPrice: 28999.99, Date: "2024-05-03T00:00:00.000Z", DepartureTime: "20:10", ArrivalTime: "22:20"},
	}
	for _, f := range flights {
		if _, err := repo.CreateFlight(ctx, f); err != nil {
			return fmt.Errorf("seed flight %s: %w", f.FlightNo, err)
		}
	}
	return nil
}
