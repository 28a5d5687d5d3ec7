// Package display renders the save feedback shown after each policy.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/onestop-insurance/onestop/internal/infrastructure/config"
)

const (
	SavingMessage = "Saving Policy Data ..."
	SavedMessage  = "Policy data has been saved"

	barWidth = 50
	// clearLine erases the current terminal line and returns the cursor.
	clearLine = "\033[2K\r"
)

var savedStyle = lipgloss.NewStyle().
	Bold(true).
	Blink(true).
	Foreground(lipgloss.Color("42"))

// Pacer writes a progress bar and a blinking confirmation. When pacing is off
// only the final confirmation line is written.
type Pacer struct {
	out      io.Writer
	settings config.DisplaySettings
	bar      progress.Model
	sleep    func(time.Duration)
}

func NewPacer(out io.Writer, settings config.DisplaySettings) *Pacer {
	return &Pacer{
		out:      out,
		settings: settings,
		bar: progress.New(
			progress.WithWidth(barWidth),
			progress.WithSolidFill("42"),
		),
		sleep: time.Sleep,
	}
}

// WithSleep replaces the delay function, mainly for tests.
func (p *Pacer) WithSleep(sleep func(time.Duration)) *Pacer {
	p.sleep = sleep
	return p
}

// Frames returns the rendered progress frames from 0% to 100%.
func (p *Pacer) Frames() []string {
	total := p.settings.Frames
	if total < 1 {
		total = 1
	}
	frames := make([]string, 0, total+1)
	for i := 0; i <= total; i++ {
		frames = append(frames, p.bar.ViewAs(float64(i)/float64(total)))
	}
	return frames
}

// Saving animates the progress bar.
func (p *Pacer) Saving() {
	if !p.settings.Pacing {
		return
	}
	for _, frame := range p.Frames() {
		p.sleep(p.settings.Step)
		fmt.Fprintf(p.out, "\r%s %s Complete", SavingMessage, frame)
	}
	fmt.Fprintln(p.out)
}

// Saved blinks the confirmation and leaves it on screen.
func (p *Pacer) Saved() {
	message := savedStyle.Render(SavedMessage)
	if p.settings.Pacing {
		for i := 0; i < p.settings.Blinks; i++ {
			fmt.Fprint(p.out, message+"\r")
			p.sleep(p.settings.BlinkInterval)
			fmt.Fprint(p.out, clearLine)
			p.sleep(p.settings.BlinkInterval)
		}
	}
	fmt.Fprintln(p.out, "\r"+message)
}

// Warn prints a highlighted warning line.
func Warn(out io.Writer, message string) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintln(out, style.Render("! "+line))
	}
}
