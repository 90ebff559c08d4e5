// Package verilog parses and formats Verilog-style numeric literals, the
// representation used by ROM data files and the decibel map format.
package verilog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Base selects the digit base used when formatting literals.
type Base int

const (
	// Binary formats literals as 0/1 digit strings.
	Binary Base = iota
	// Hex formats literals as lowercase hexadecimal digit strings.
	Hex
)

// ParseBase maps a command-line format name to a Base. The empty string
// defaults to Binary.
func ParseBase(name string) (Base, error) {
	switch name {
	case "binary", "":
		return Binary, nil
	case "hex":
		return Hex, nil
	default:
		return 0, fmt.Errorf("unexpected format %q", name)
	}
}

// literalRE matches an optional sign, then either a sized/based literal
// such as 6'b01_0000 or a plain decimal integer.
var literalRE = regexp.MustCompile(`^(-?)(?:(?:\d+)?'([bBoOhHdD])([0-9a-fA-F_]+)|(\d+))$`)

// ParseLiteral evaluates a Verilog-style numeric literal: an optional
// leading minus, an optional bit width, a base marker 'b/'o/'h/'d with
// underscore digit separators, or a plain decimal integer. The bit width
// prefix, when present, does not affect the value.
func ParseLiteral(s string) (int, error) {
	m := literalRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("cannot parse verilog number %q", s)
	}

	sign, baseMark, digits, plain := m[1], m[2], m[3], m[4]

	var (
		val int64
		err error
	)

	if plain != "" {
		val, err = strconv.ParseInt(plain, 10, 64)
	} else {
		var base int

		switch strings.ToLower(baseMark) {
		case "b":
			base = 2
		case "o":
			base = 8
		case "h":
			base = 16
		case "d":
			base = 10
		}

		val, err = strconv.ParseInt(strings.ReplaceAll(digits, "_", ""), base, 64)
	}

	if err != nil {
		return 0, fmt.Errorf("cannot parse verilog number %q: %w", s, err)
	}

	if sign == "-" {
		val = -val
	}

	return int(val), nil
}

// FormatLiteral renders n as a digit string in the given base, zero
// padded on the left to width digits. Negative values render as their
// 32-bit two's complement pattern. Widths shorter than the natural digit
// count never truncate.
func FormatLiteral(n int, base Base, width int) (string, error) {
	var digits string

	switch base {
	case Binary:
		digits = strconv.FormatUint(uint64(uint32(n)), 2)
	case Hex:
		digits = strconv.FormatUint(uint64(uint32(n)), 16)
	default:
		return "", fmt.Errorf("unexpected base %d", base)
	}

	if pad := width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}

	return digits, nil
}
