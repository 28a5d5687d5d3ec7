package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/onestop-insurance/onestop/pkg/domain/ledger"
	"github.com/onestop-insurance/onestop/pkg/domain/receipt"
	"github.com/shopspring/decimal"
)

var (
	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)
)

var ledgerColumns = []table.Column{
	{Title: "Policy", Width: 7},
	{Title: "Customer", Width: 22},
	{Title: "Prov", Width: 4},
	{Title: "Cars", Width: 4},
	{Title: "Lia", Width: 3},
	{Title: "Gls", Width: 3},
	{Title: "Lnr", Width: 3},
	{Title: "Pay", Width: 7},
	{Title: "Down", Width: 11},
	{Title: "Pre-tax", Width: 12},
}

func flag(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

// LedgerRows converts entries to table rows in ledger order.
func LedgerRows(entries []ledger.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		r := e.Request
		rows = append(rows, table.Row{
			strconv.FormatInt(e.PolicyNumber, 10),
			r.Customer.FullName(),
			r.Customer.Province,
			strconv.Itoa(r.Vehicles),
			flag(r.Coverage.ExtraLiability),
			flag(r.Coverage.Glass),
			flag(r.Coverage.LoanerCar),
			r.Payment.Label(),
			receipt.Money(r.DownPayment),
			receipt.Money(e.PreTaxTotal),
		})
	}
	return rows
}

func newLedgerTable(entries []ledger.Entry, height int, focused bool) table.Model {
	t := table.New(
		table.WithColumns(ledgerColumns),
		table.WithRows(LedgerRows(entries)),
		table.WithFocused(focused),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	if focused {
		s.Selected = s.Selected.Foreground(lipgloss.Color("229"))
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	t.SetStyles(s)
	return t
}

// RenderLedger returns a static table of every entry.
func RenderLedger(entries []ledger.Entry) string {
	return newLedgerTable(entries, len(entries)+2, false).View()
}

// Summary reports the entry count and the sum of pre-tax totals.
func Summary(entries []ledger.Entry) string {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.PreTaxTotal)
	}
	return fmt.Sprintf("%d policies, %s pre-tax", len(entries), receipt.Money(total))
}

// Browser is an interactive ledger viewer.
type Browser struct {
	table   table.Model
	entries []ledger.Entry
	title   string
}

func NewBrowser(title string, entries []ledger.Entry) Browser {
	return Browser{
		table:   newLedgerTable(entries, 12, true),
		entries: entries,
		title:   title,
	}
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return b, tea.Quit
		}
	}
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

// Selected returns the entry under the cursor, if any.
func (b Browser) Selected() (ledger.Entry, bool) {
	i := b.table.Cursor()
	if i < 0 || i >= len(b.entries) {
		return ledger.Entry{}, false
	}
	return b.entries[i], true
}

func (b Browser) View() string {
	return frameStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(b.title),
			b.table.View(),
			Summary(b.entries),
			"[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}

// Browse runs the viewer until the operator quits.
func Browse(title string, entries []ledger.Entry, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(NewBrowser(title, entries), tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ledger browser failed: %w", err)
	}
	return nil
}
