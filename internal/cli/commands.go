package cli

import (
	"context"
	"flag"
	"io"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/cx-tal-miterani/flightdesk/internal/portal"
	"github.com/cx-tal-miterani/flightdesk/internal/session"
)

func (a App) portal(e *env) *portal.Portal {
	return portal.New(e.backend, e.session, e.notifier, e.loading, e.logger)
}

func (a App) cmdLogin(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	token := fs.String("token", "", "bearer token")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *token == "" {
		return usagef("login: --token is required")
	}
	if err := e.session.Login(*token); err != nil {
		return err
	}
	e.notifier.Success("Logged in")
	return nil
}

func (a App) cmdLogout(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := e.session.Logout(); err != nil {
		return err
	}
	e.notifier.Success("Logged out")
	return nil
}

// cmdStatus prints the session after verification. It exits with the auth
// code when the stored token was not accepted.
func (a App) cmdStatus(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	view := e.session.View()
	if err := a.print(e, view, func(w io.Writer) error { return writeSession(w, view) }); err != nil {
		return err
	}
	if !view.Authenticated {
		return shown(session.ErrNotAuthenticated)
	}
	return nil
}

func (a App) cmdSearch(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	var req models.SearchRequest
	fs.StringVar(&req.From, "from", "", "departure city")
	fs.StringVar(&req.To, "to", "", "arrival city")
	fs.StringVar(&req.Date, "date", "", "date, YYYY-MM-DD")
	fs.StringVar(&req.Category, "category", "", categoryList())
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	flights, err := a.portal(e).Search(ctx, req)
	if err != nil {
		return shown(err)
	}
	return a.print(e, flights, func(w io.Writer) error { return writeFlights(w, flights) })
}

func (a App) cmdSearchAll(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("search-all", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	flights, err := a.portal(e).SearchAll(ctx)
	if err != nil {
		return shown(err)
	}
	return a.print(e, flights, func(w io.Writer) error { return writeFlights(w, flights) })
}

func (a App) cmdFeedback(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ContinueOnError)
	var fb models.Feedback
	fs.StringVar(&fb.Name, "name", "", "your name")
	fs.StringVar(&fb.Email, "email", "", "contact email")
	fs.StringVar(&fb.Mobile, "mobile", "", "10-digit mobile number")
	fs.StringVar(&fb.Subject, "subject", "", "subject")
	fs.StringVar(&fb.Message, "message", "", "message")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return shown(a.portal(e).SendFeedback(ctx, fb))
}

// cmdProfile shows the profile, or updates it when any field flag is given.
// Fields not given keep their stored values.
func (a App) cmdProfile(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	mobile := fs.String("mobile", "", "10-digit mobile number")
	address := fs.String("address", "", "postal address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	p := a.portal(e)
	user, err := p.Profile(ctx)
	if err != nil {
		return shown(err)
	}

	if fs.NFlag() > 0 {
		upd := models.ProfileUpdate{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Mobile:    user.Mobile,
			Address:   user.Address,
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "first-name":
				upd.FirstName = *firstName
			case "last-name":
				upd.LastName = *lastName
			case "mobile":
				upd.Mobile = *mobile
			case "address":
				upd.Address = *address
			}
		})
		if user, err = p.UpdateProfile(ctx, upd); err != nil {
			return shown(err)
		}
	}
	return a.print(e, user, func(w io.Writer) error { return writeProfile(w, user) })
}
