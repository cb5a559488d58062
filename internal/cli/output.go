package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/session"
)

func (a App) print(e *env, data any, human func(w io.Writer) error) error {
	if e.json {
		enc := json.NewEncoder(a.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return human(a.Stdout)
}

func writeFlights(w io.Writer, flights []models.FlightRecord) error {
	if len(flights) == 0 {
		_, err := fmt.Fprintln(w, "no flights")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFLIGHT\tAIRLINE\tFROM\tTO\tCATEGORY\tSEATS\tPRICE\tDATE\tDEPARTS\tARRIVES")
	for _, f := range flights {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%s\t%s\t%s\n",
			f.ID, f.FlightNo, f.Airline, f.From, f.To, f.Category,
			f.TotalSeats, f.TotalPrice, f.DatePart(), f.DepartureTime, f.ArrivalTime)
	}
	return tw.Flush()
}

func writeProfile(w io.Writer, u *models.UserProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "name:\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "mobile:\t%s\n", u.Mobile)
	fmt.Fprintf(tw, "address:\t%s\n", u.Address)
	return tw.Flush()
}

func writeSession(w io.Writer, v session.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	state := "no"
	if v.Authenticated {
		state = "yes"
	}
	fmt.Fprintf(tw, "authenticated:\t%s\n", state)
	if !v.Identity.Empty() {
		fmt.Fprintf(tw, "username:\t%s\n", v.Identity.Username)
		fmt.Fprintf(tw, "email:\t%s\n", v.Identity.Email)
	}
	fmt.Fprintf(tw, "backend:\t%s\n", v.BackendBaseURL)
	if v.ExpiresAt != nil {
		fmt.Fprintf(tw, "expires:\t%s\n", v.ExpiresAt.Local().Format(time.RFC1123))
	}
	return tw.Flush()
}
