package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/crypto"
	"golang.org/x/term"
)

// NoChoice is returned by MenuChoice for input that names no option
const NoChoice = 0

var readPassword = term.ReadPassword

type lineReader interface {
	ReadString(delim byte) (string, error)
}

// Prompter asks the user for input
type Prompter struct {
	in       lineReader
	out      io.Writer
	fd       int
	terminal bool
}

// New creates a prompter on a file, hiding input if it is a terminal.
// Terminal input is read unbuffered since passwords are read from the
// same descriptor.
func New(in *os.File, out io.Writer) *Prompter {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		return &Prompter{
			in:       rawReader{r: in},
			out:      out,
			fd:       fd,
			terminal: true,
		}
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
	}
}

// NewReader creates a prompter that reads plain lines from r
func NewReader(r io.Reader, out io.Writer) *Prompter {
	if f, ok := r.(*os.File); ok {
		return New(f, out)
	}
	return &Prompter{
		in:  bufio.NewReader(r),
		out: out,
		fd:  -1,
	}
}

// Password reads a password without echoing it
func (p *Prompter) Password(prompt string) ([]byte, error) {
	fmt.Fprint(p.out, prompt)

	if !p.terminal {
		line, err := p.readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return []byte(line), nil
	}

	password, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// PasswordConfirm reads a password twice and ensures they match
func (p *Prompter) PasswordConfirm() ([]byte, error) {
	password1, err := p.Password("Enter password: ")
	if err != nil {
		return nil, err
	}

	password2, err := p.Password("Confirm password: ")
	if err != nil {
		crypto.ClearBytes(password1)
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		crypto.ClearBytes(password1)
		return nil, core.ErrPasswordMismatch
	}
	return password1, nil
}

// AccountName asks for an account name
func (p *Prompter) AccountName(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret asks for the secret of an account without echoing it
func (p *Prompter) Secret(prompt string) (string, error) {
	secret, err := p.Password(prompt)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(secret)
	return string(secret), nil
}

// SearchPattern asks for a search string
func (p *Prompter) SearchPattern() (string, error) {
	fmt.Fprint(p.out, "Search for: ")
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// YesNo asks a question that defaults to no
func (p *Prompter) YesNo(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s yes/no ? [no] ", question)
	line, err := p.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// MenuChoice shows numbered options and returns the 1-based pick, or
// NoChoice if the input matches none of them
func (p *Prompter) MenuChoice(options []string) (int, error) {
	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, option)
	}
	fmt.Fprint(p.out, "> ")

	line, err := p.readLine()
	if err != nil {
		return NoChoice, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(options) {
		return NoChoice, nil
	}
	return n, nil
}

// readLine returns one line without its terminator. A final line without
// a newline is accepted, an empty stream is io.EOF.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// rawReader reads a line one byte at a time, leaving everything after the
// delimiter unread
type rawReader struct {
	r io.Reader
}

func (r rawReader) ReadString(delim byte) (string, error) {
	var (
		line []byte
		b    [1]byte
	)
	for {
		n, err := r.r.Read(b[:])
		if n > 0 {
			line = append(line, b[0])
			if b[0] == delim {
				return string(line), nil
			}
		}
		if err != nil {
			return string(line), err
		}
	}
}
