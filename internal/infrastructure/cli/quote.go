package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/onestop-insurance/onestop/internal/infrastructure/display"
	"github.com/onestop-insurance/onestop/pkg/application"
	"github.com/onestop-insurance/onestop/pkg/domain/pricing"
	"github.com/onestop-insurance/onestop/pkg/domain/quote"
	"github.com/onestop-insurance/onestop/pkg/domain/session"
	"github.com/spf13/cobra"
)

// issueDate dates each receipt.
var issueDate = func() civil.Date { return civil.DateOf(time.Now()) }

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Enter customers and issue policies",
	Long: `Prompt for customer, vehicle, coverage, payment and claim details, print
the policy receipt, record the policy in the ledger and move on to the next
policy number. Repeats until you decline to enter another customer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuote(cmd)
	},
}

func init() {
	RootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command) error {
	sessionID := uuid.NewString()
	services, err := loadServices(cmd, []any{"session", sessionID}, application.WithClock(issueDate))
	if err != nil {
		return MapError(err)
	}

	unlock, err := services.Workspace.Repo.Lock()
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = unlock() }()

	machine, err := session.NewMachine(sessionID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	qs := &quoteSession{
		prompt:  newPrompter(cmd.InOrStdin(), out),
		out:     out,
		quotes:  services.Quote,
		pacer:   display.NewPacer(out, services.Workspace.Settings.Display),
		machine: machine,
		logger:  services.Workspace.Logger,
	}
	return MapError(qs.run())
}

type quoteSession struct {
	prompt  *prompter
	out     io.Writer
	quotes  *application.QuoteService
	pacer   *display.Pacer
	machine *session.Machine
	logger  *slog.Logger
}

func (s *quoteSession) run() error {
	cfg, err := s.quotes.Constants()
	if err != nil {
		return err
	}
	s.logger.Debug("session started", "policy_counter", cfg.PolicyCounter)

	issued := 0
	for {
		req, err := s.collect()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("input closed while collecting")
				return s.finish(issued)
			}
			return err
		}

		if err := s.machine.Fire(session.EventCalculate); err != nil {
			return err
		}
		b, err := s.quotes.Price(req, cfg)
		if err != nil {
			fmt.Fprintf(s.out, "Unable to price this policy: %v\n", err)
			if err := s.machine.Fire(session.EventRepeat); err != nil {
				return err
			}
			continue
		}

		if err := s.machine.Fire(session.EventDisplay); err != nil {
			return err
		}
		s.showReceipt(cfg, req, b)

		if err := s.machine.Fire(session.EventPersist); err != nil {
			return err
		}
		next, err := s.persist(cfg, req, b)
		cfg = next
		if err != nil {
			return err
		}
		issued++

		again, err := askUntil(s.prompt, "Do you want to enter another customer? (Y/N)", "Please answer Y or N.", quote.ParseYesNo)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if !again {
			return s.finish(issued)
		}
		if err := s.machine.Fire(session.EventRepeat); err != nil {
			return err
		}
	}
}

func (s *quoteSession) showReceipt(cfg pricing.Config, req quote.Request, b pricing.Breakdown) {
	fmt.Fprint(s.out, s.quotes.Receipt(cfg.PolicyCounter, req, b))
	fmt.Fprintln(s.out)
	if b.Overpaid() {
		display.Warn(s.out, "The down payment exceeds the policy total; the amount owing is negative.")
	}
}

// persist records the policy and advances the counter. The returned config
// carries the next policy number even when the ledger write failed.
func (s *quoteSession) persist(cfg pricing.Config, req quote.Request, b pricing.Breakdown) (pricing.Config, error) {
	s.pacer.Saving()
	result, err := s.quotes.Issue(cfg, req, b)
	if err != nil {
		return result.Next, err
	}
	if result.LedgerErr != nil {
		display.Warn(s.out, fmt.Sprintf("Policy %d was not saved to the ledger: %v", result.PolicyNumber, result.LedgerErr))
		return result.Next, nil
	}
	s.pacer.Saved()
	return result.Next, nil
}

func (s *quoteSession) finish(issued int) error {
	if err := s.machine.Fire(session.EventTerminate); err != nil {
		return err
	}
	s.logger.Debug("session finished", "policies", issued)
	fmt.Fprintf(s.out, "\n%d %s issued. Goodbye.\n", issued, plural(issued, "policy", "policies"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// collect prompts for every request field in order, re-prompting on invalid
// answers.
func (s *quoteSession) collect() (quote.Request, error) {
	var req quote.Request
	p := s.prompt
	c := &req.Customer
	trim := strings.TrimSpace

	const (
		blank    = "This field cannot be blank."
		yesNo    = "Please answer Y or N."
		amount   = "Invalid amount. Please enter a number that is zero or more."
		province = "Invalid province code. Please enter a valid two-letter province code."
		postal   = "Invalid postal code. Please enter a valid postal code."
		phone    = "Invalid phone number. Please enter a ten digit phone number."
		vehicles = "Invalid number of cars. Please enter a whole number from 1 to 99."
		payment  = "Please enter F to pay in full or M to pay monthly."
		date     = "Invalid date format. Please enter the date in YYYY-MM-DD format."
	)

	steps := []func() error{
		func() (err error) {
			c.FirstName, err = askUntil(p, "Enter first name", blank, required(quote.FormatName))
			return err
		},
		func() (err error) {
			c.LastName, err = askUntil(p, "Enter last name", blank, required(quote.FormatName))
			return err
		},
		func() (err error) {
			c.Address, err = askUntil(p, "Enter address", blank, required(trim))
			return err
		},
		func() (err error) {
			c.City, err = askUntil(p, "Enter city", blank, required(quote.FormatName))
			return err
		},
		func() (err error) {
			c.Province, err = askUntil(p, "Enter province (XX)", province, quote.NormalizeProvince)
			return err
		},
		func() (err error) {
			c.PostalCode, err = askUntil(p, "Enter postal code (A1A 1A1)", postal, quote.NormalizePostalCode)
			return err
		},
		func() (err error) {
			c.Phone, err = askUntil(p, "Enter phone number (999-999-9999)", phone, quote.NormalizePhone)
			return err
		},
		func() (err error) {
			req.Vehicles, err = askUntil(p, "Enter number of cars", vehicles, quote.ParseVehicles)
			return err
		},
		func() (err error) {
			req.Coverage.ExtraLiability, err = askUntil(p, "Extra liability coverage (Y/N)", yesNo, quote.ParseYesNo)
			return err
		},
		func() (err error) {
			req.Coverage.Glass, err = askUntil(p, "Glass coverage (Y/N)", yesNo, quote.ParseYesNo)
			return err
		},
		func() (err error) {
			req.Coverage.LoanerCar, err = askUntil(p, "Loaner car coverage (Y/N)", yesNo, quote.ParseYesNo)
			return err
		},
		func() (err error) {
			req.InsuredValue, err = askUntil(p, "Insured value up to $1,000,000 (Y/N)", yesNo, quote.ParseYesNo)
			return err
		},
		func() (err error) {
			req.Payment, err = askUntil(p, "Pay in full or monthly (F/M)", payment, quote.ParsePaymentOption)
			return err
		},
		func() (err error) {
			if req.Payment != quote.Monthly {
				return nil
			}
			req.DownPayment, err = askUntil(p, "Enter down payment (if any)", amount, quote.ParseAmount)
			return err
		},
		func() (err error) {
			req.Claim.Number, err = askUntil(p, "Enter claim number", blank, required(trim))
			return err
		},
		func() (err error) {
			req.Claim.Date, err = askUntil(p, "Enter claim date (YYYY-MM-DD)", date, quote.ParseDate)
			return err
		},
		func() (err error) {
			req.Claim.Amount, err = askUntil(p, "Enter claim amount", amount, quote.ParseAmount)
			return err
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return quote.Request{}, err
		}
	}
	return req, nil
}
