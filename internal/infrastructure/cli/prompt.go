package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errBlank = errors.New("value is required")

type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{reader: bufio.NewReader(in), out: out}
}

// ask prints label and returns the trimmed answer. io.EOF is returned once
// the input is exhausted.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	input, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimSpace(input), nil
		}
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// askUntil repeats the prompt until parse accepts the answer.
func askUntil[T any](p *prompter, label, invalid string, parse func(string) (T, error)) (T, error) {
	for {
		raw, err := p.ask(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(raw)
		if err == nil {
			return v, nil
		}
		fmt.Fprintln(p.out, invalid)
	}
}

func required(format func(string) string) func(string) (string, error) {
	return func(raw string) (string, error) {
		v := format(raw)
		if v == "" {
			return "", errBlank
		}
		return v, nil
	}
}

// askDefault shows def in brackets and returns it for an empty answer.
func (p *prompter) askDefault(label, def string) (string, error) {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	answer, err := p.ask(label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
