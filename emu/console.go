// Package emu provides functional R32 emulation.
package emu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// EOF is the value GETC_R stores when the input is exhausted.
const EOF uint32 = 0xFFFFFFFF

// Console is the program-visible character I/O of the machine.
type Console interface {
	// PrintInt writes the unsigned decimal form of value.
	PrintInt(value uint32) error

	// PutChar writes the low byte of value.
	PutChar(value uint32) error

	// GetChar reads one byte, returning EOF when the input is exhausted.
	GetChar() (uint32, error)
}

// DefaultConsole is a Console over an injected writer and reader.
type DefaultConsole struct {
	out io.Writer
	in  *bufio.Reader
}

// NewDefaultConsole creates a console. A nil writer discards output and a
// nil reader behaves as an empty input.
func NewDefaultConsole(out io.Writer, in io.Reader) *DefaultConsole {
	c := &DefaultConsole{out: out}
	if c.out == nil {
		c.out = io.Discard
	}
	if in != nil {
		c.in = bufio.NewReader(in)
	}
	return c
}

// PrintInt writes the unsigned decimal form of value.
func (c *DefaultConsole) PrintInt(value uint32) error {
	_, err := io.WriteString(c.out, strconv.FormatUint(uint64(value), 10))
	if err != nil {
		return fmt.Errorf("print int: %w", err)
	}
	return nil
}

// PutChar writes the low byte of value.
func (c *DefaultConsole) PutChar(value uint32) error {
	if _, err := c.out.Write([]byte{byte(value)}); err != nil {
		return fmt.Errorf("put char: %w", err)
	}
	return nil
}

// GetChar reads one byte from the input.
func (c *DefaultConsole) GetChar() (uint32, error) {
	if c.in == nil {
		return EOF, nil
	}
	b, err := c.in.ReadByte()
	if errors.Is(err, io.EOF) {
		return EOF, nil
	}
	if err != nil {
		return EOF, fmt.Errorf("get char: %w", err)
	}
	return uint32(b), nil
}
