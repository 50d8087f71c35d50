package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console is the line-oriented prompt protocol between the sorter and the
// operator. Reads lines from in, writes prompts and notices to out. Tests
// drive it with a strings.Reader and a bytes.Buffer.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	palette *Palette
}

// NewConsole creates a console over the given reader and writer.
func NewConsole(in io.Reader, out io.Writer, palette *Palette) *Console {
	if palette == nil {
		palette = NewPalette(false)
	}
	return &Console{in: bufio.NewReader(in), out: out, palette: palette}
}

// Palette exposes the console's stylesheet for callers composing their own output.
func (c *Console) Palette() *Palette {
	return c.palette
}

// Printf writes formatted output to the console.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line to the console.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// OK, Warnf and Errf write styled notices.
func (c *Console) OK(format string, args ...any) {
	fmt.Fprintln(c.out, c.palette.OK(fmt.Sprintf(format, args...)))
}

func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintln(c.out, c.palette.Warn(fmt.Sprintf(format, args...)))
}

func (c *Console) Errf(format string, args ...any) {
	fmt.Fprintln(c.out, c.palette.Err(fmt.Sprintf(format, args...)))
}

// Prompt writes the label and reads one trimmed line. Returns io.EOF when the
// input is exhausted.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// YesNo asks a yes/no question and re-prompts until it gets a recognizable
// answer. Returns false on EOF.
func (c *Console) YesNo(question string) (bool, error) {
	for {
		answer, err := c.Prompt(question + " [y/n] ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			c.Warnf("Please answer y or n.")
		}
	}
}
