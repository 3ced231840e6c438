package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user answers a prompt with nothing.
var ErrEmptyInput = errors.New("empty input")

// Terminal access, replaced in tests.
var (
	readPassword = term.ReadPassword
	stdinFD      = func() int { return int(os.Stdin.Fd()) }
)

// Command-level seams so tests can script answers without a terminal.
var (
	promptLine     = PromptLine
	promptPassword = PromptPassword
)

// PromptLine writes "label: " to w and returns the next line from r with
// surrounding whitespace removed. A final line without a newline is
// accepted; a blank answer is ErrEmptyInput.
func PromptLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}

	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", ErrEmptyInput
	}
	return line, nil
}

// PromptPassword reads a password from the terminal with echo off. The
// caller owns the returned slice and wipes it with common.WipeByteArray.
func PromptPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return nil, err
	}

	pw, err := readPassword(stdinFD())
	// Echo is off, so the user's Enter never reached the screen.
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("error reading password: %w", err)
	}
	if len(pw) == 0 {
		return nil, ErrEmptyInput
	}
	return pw, nil
}
