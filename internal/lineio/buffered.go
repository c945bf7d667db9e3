// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package lineio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// bufferedBackend reads whole lines from a plain stream. It keeps no
// editing or history state across lines.
type bufferedBackend struct {
	in  *bufio.Reader
	out io.Writer
}

// NewBuffered returns a Source over a plain line-buffered stream. The
// prompt callback is consulted on every render.
func NewBuffered(in io.Reader, out io.Writer, prompt func() string) *Source {
	return newSource(&bufferedBackend{in: bufio.NewReader(in), out: out}, prompt)
}

func (b *bufferedBackend) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.in.ReadString('\n')
	if err != nil {
		// A final line without a trailing newline still counts.
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufferedBackend) Render(prompt string) {
	fmt.Fprint(b.out, prompt)
}

// Suspend ends the current visual line so a nested prompt starts clean.
func (b *bufferedBackend) Suspend() {
	fmt.Fprintln(b.out)
}

func (b *bufferedBackend) Close() error {
	return nil
}
