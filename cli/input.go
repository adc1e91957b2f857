package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader yields one command line per call. Implementations return io.EOF
// when input is exhausted and readline.ErrInterrupt when the player sends
// an interrupt; both end the session gracefully.
type Reader interface {
	ReadCommand() (string, error)
	Close() error
}

// DirectReader reads commands from any input stream, for piped input and
// tests. It does not sanitize control sequences.
type DirectReader struct {
	r *bufio.Reader
}

// NewDirectReader wraps r in a buffered command reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// ReadCommand reads the next non-blank line. At end of input it returns
// io.EOF.
func (d *DirectReader) ReadCommand() (string, error) {
	for {
		line, err := d.r.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil {
			if err == io.EOF && line != "" {
				return line, nil
			}
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// Close implements Reader; a DirectReader holds no resources.
func (d *DirectReader) Close() error { return nil }

// InteractiveReader reads commands from a TTY through readline, with line
// editing and history.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader initializes readline. Close must be called before
// disposal.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}
	return &InteractiveReader{rl: rl}, nil
}

// ReadCommand reads the next non-blank line from the terminal.
func (i *InteractiveReader) ReadCommand() (string, error) {
	for {
		line, err := i.rl.Readline()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

// Close tears down readline resources.
func (i *InteractiveReader) Close() error { return i.rl.Close() }
