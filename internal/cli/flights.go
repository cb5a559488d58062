package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cx-tal-miterani/flightdesk/internal/flights"
	"github.com/cx-tal-miterani/flightdesk/internal/models"
)

func (a App) cmdFlights(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return usagef("flights: expected list, add, edit or delete")
	}
	switch args[0] {
	case "list":
		return a.flightsList(ctx, e, args[1:])
	case "add":
		return a.flightsAdd(ctx, e, args[1:])
	case "edit":
		return a.flightsEdit(ctx, e, args[1:])
	case "delete":
		return a.flightsDelete(ctx, e, args[1:])
	}
	return usagef("flights: unknown action %q", args[0])
}

func (a App) controller(e *env, confirm flights.Confirmer) *flights.Controller {
	return flights.NewController(flights.Config{
		Backend:   e.backend,
		Session:   e.session,
		Notifier:  e.notifier,
		Loading:   e.loading,
		Confirmer: confirm,
		Logger:    e.logger,
	})
}

func (a App) flightsList(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("flights list", flag.ContinueOnError)
	category := fs.String("category", "", "exact category: "+categoryList())
	airline := fs.String("airline", "", "airline substring, any case")
	date := fs.String("date", "", "date, YYYY-MM-DD")
	sortBy := fs.String("sort", "none", "none, date, airline, flightNo, seats or price")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *category != "" && !models.Category(*category).Valid() {
		return usagef("flights list: --category must be one of %s", categoryList())
	}
	key, err := flights.ParseSortKey(*sortBy)
	if err != nil {
		return usagef("flights list: %v", err)
	}

	ctrl := a.controller(e, nil)
	if err := ctrl.FetchAll(ctx); err != nil {
		return shown(err)
	}
	for d, v := range map[flights.Dimension]string{
		flights.DimensionCategory: *category,
		flights.DimensionAirline:  *airline,
		flights.DimensionDate:     *date,
	} {
		if err := ctrl.SetFilter(d, v); err != nil {
			return err
		}
	}
	ctrl.SetSort(key)

	visible := ctrl.Visible()
	return a.print(e, visible, func(w io.Writer) error { return writeFlights(w, visible) })
}

// categoryList joins the valid categories for help and error text.
func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// flightFlags binds one flag per editable flight field.
type flightFlags struct {
	fs     *flag.FlagSet
	record models.FlightRecord
	cat    string
}

func newFlightFlags(fs *flag.FlagSet) *flightFlags {
	ff := &flightFlags{fs: fs}
	fs.StringVar(&ff.record.FlightNo, "flight-no", "", "flight number")
	fs.StringVar(&ff.record.Airline, "airline", "", "airline")
	fs.StringVar(&ff.record.From, "from", "", "departure city")
	fs.StringVar(&ff.record.To, "to", "", "arrival city")
	fs.StringVar(&ff.cat, "category", "", categoryList())
	fs.IntVar(&ff.record.TotalSeats, "seats", 0, "total seats")
	fs.Float64Var(&ff.record.TotalPrice, "price", 0, "total price")
	fs.StringVar(&ff.record.Date, "date", "", "date, YYYY-MM-DD")
	fs.StringVar(&ff.record.DepartureTime, "departure", "", "departure time, HH:MM")
	fs.StringVar(&ff.record.ArrivalTime, "arrival", "", "arrival time, HH:MM")
	return ff
}

// full returns the record built from every flag.
func (ff *flightFlags) full() models.FlightRecord {
	r := ff.record
	r.Category = models.Category(ff.cat)
	return r
}

// overlay copies only the flags given on the command line onto base.
func (ff *flightFlags) overlay(base models.FlightRecord) models.FlightRecord {
	ff.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "flight-no":
			base.FlightNo = ff.record.FlightNo
		case "airline":
			base.Airline = ff.record.Airline
		case "from":
			base.From = ff.record.From
		case "to":
			base.To = ff.record.To
		case "category":
			base.Category = models.Category(ff.cat)
		case "seats":
			base.TotalSeats = ff.record.TotalSeats
		case "price":
			base.TotalPrice = ff.record.TotalPrice
		case "date":
			base.Date = ff.record.Date
		case "departure":
			base.DepartureTime = ff.record.DepartureTime
		case "arrival":
			base.ArrivalTime = ff.record.ArrivalTime
		}
	})
	return base
}

func (a App) flightsAdd(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("flights add", flag.ContinueOnError)
	ff := newFlightFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return shown(a.controller(e, nil).Add(ctx, ff.full()))
}

func (a App) flightsEdit(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("flights edit", flag.ContinueOnError)
	id := fs.String("id", "", "flight id")
	ff := newFlightFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usagef("flights edit: --id is required")
	}

	ctrl := a.controller(e, nil)
	if err := ctrl.FetchAll(ctx); err != nil {
		return shown(err)
	}
	draft, err := ctrl.BeginEdit(*id)
	if err != nil {
		return err
	}
	return shown(ctrl.SubmitEdit(ctx, ff.overlay(draft)))
}

func (a App) flightsDelete(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("flights delete", flag.ContinueOnError)
	id := fs.String("id", "", "flight id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return usagef("flights delete: --id is required")
	}

	confirm := flights.ConfirmFunc(func(prompt string) bool {
		if *yes {
			return true
		}
		return a.prompt(prompt)
	})
	ctrl := a.controller(e, confirm)
	deleted, err := ctrl.Delete(ctx, *id)
	if err != nil {
		return shown(err)
	}
	if !deleted {
		fmt.Fprintln(a.Stderr, "cancelled")
		return nil
	}
	remaining := ctrl.Collection()
	return a.print(e, remaining, func(w io.Writer) error { return writeFlights(w, remaining) })
}

// prompt asks a yes/no question on stderr and reads the answer from stdin.
// Anything but y or yes, including end of input, is a no.
func (a App) prompt(question string) bool {
	fmt.Fprintf(a.Stderr, "%s [y/N]: ", question)
	if a.Stdin == nil {
		return false
	}
	line, err := bufio.NewReader(a.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
