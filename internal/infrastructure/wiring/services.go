package wiring

import (
	"github.com/onestop-insurance/onestop/pkg/application"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Pricing   *application.PricingService
	Ledger    *application.LedgerService
	Quote     *application.QuoteService
}

// BuildAppServices constructs the services for a workspace root.
func BuildAppServices(root string, opts ...application.QuoteOption) (*AppServices, error) {
	workspace, err := NewWorkspace(root, nil)
	if err != nil {
		return nil, err
	}
	return BuildForWorkspace(workspace, opts...), nil
}

// BuildForWorkspace wires services onto an already loaded workspace.
func BuildForWorkspace(ws *Workspace, opts ...application.QuoteOption) *AppServices {
	pricingSvc := application.NewPricingService(ws.Repo, ws.Repo, ws.Logger)
	ledgerSvc := application.NewLedgerService(ws.Repo, ws.Logger)

	quoteOpts := []application.QuoteOption{
		application.WithCompany(ws.Settings.Company),
		application.WithFooter(ws.Settings.Footer),
	}
	quoteOpts = append(quoteOpts, opts...)

	return &AppServices{
		Workspace: ws,
		Pricing:   pricingSvc,
		Ledger:    ledgerSvc,
		Quote:     application.NewQuoteService(pricingSvc, ledgerSvc, ws.Logger, quoteOpts...),
	}
}
