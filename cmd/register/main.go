// cmd/register submits one registration from the command line through the
// same form pipeline the website uses: field validation, sanitization and
// a single guarded submission to the intake.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/form"
)

// intakeEnv supplies flag defaults.
type intakeEnv struct {
	Endpoint string        `env:"INTAKE_URL" envDefault:"http://localhost:8080/"`
	Mode     string        `env:"INTAKE_MODE" envDefault:"opaque"`
	Timeout  time.Duration `env:"INTAKE_TIMEOUT" envDefault:"30s"`
}

// eventList collects a repeatable -event flag.
type eventList []string

func (e *eventList) String() string { return strings.Join(*e, ", ") }

func (e *eventList) Set(v string) error {
	*e = append(*e, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var defaults intakeEnv
	if err := env.Parse(&defaults); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var (
		name     = fs.String("name", "", "full name")
		college  = fs.String("college", "", "college name")
		age      = fs.String("age", "", "age in years")
		email    = fs.String("email", "", "email address")
		phone    = fs.String("phone", "", "10-digit contact number")
		city     = fs.String("city", "", "city / state (optional)")
		endpoint = fs.String("endpoint", defaults.Endpoint, "intake URL")
		mode     = fs.String("mode", defaults.Mode, "transport mode: opaque or status")
		verbose  = fs.Bool("v", false, "log submission details")
		events   eventList
	)
	fs.Var(&events, "event", "event to register for (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	m, err := form.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	f := form.NewRegistrationForm()
	for field, v := range map[string]string{
		form.FieldFullName:      *name,
		form.FieldCollegeName:   *college,
		form.FieldAge:           *age,
		form.FieldEmail:         *email,
		form.FieldContactNumber: *phone,
		form.FieldCityState:     *city,
	} {
		if err := f.Set(field, v); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	for _, ev := range events {
		f.Check(ev)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaults.Timeout)
	defer cancel()

	o := form.NewOrchestrator(f, form.NewHTTPTransport(*endpoint, m), form.WithLogger(logger))

	switch o.Submit(ctx) {
	case form.OutcomeInvalid:
		for _, fd := range form.RegistrationFields {
			if st := f.State(fd.Name); !st.Valid && st.Message != "" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", fd.Name, st.Message)
			}
		}
		if msg := f.EventsError(); msg != "" {
			fmt.Fprintf(os.Stderr, "events: %s\n", msg)
		}
		return 1
	case form.OutcomeFailure:
		fmt.Fprintln(os.Stderr, f.Banner().Message)
		return 1
	case form.OutcomeSuccess:
		fmt.Println(f.Banner().Message)
		return 0
	default:
		fmt.Fprintln(os.Stderr, "submission ignored: another request is in flight")
		return 1
	}
}
