// Package regnum derives teacher register numbers.
//
// A register number is YYYY + SS + NNNN: the joining year, the last two
// digits of the summed stream codes, and a zero-padded sequence. The
// sequence segment is not range checked; sequence 10000 produces an
// 11-character number.
package regnum

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidJoiningDate is returned when the joining date has no 4-digit year prefix.
var ErrInvalidJoiningDate = errors.New("joining date must start with a 4-digit year")

// DefaultStreamCodes is the stream code table used when none is configured.
var DefaultStreamCodes = map[string]int{
	"BTech": 42,
	"MCA":   74,
	"MBA":   46,
	"BArch": 58,
	"BA":    6,
	"MTech": 22,
}

// Sequencer hands out the sequence segment for the next register number.
type Sequencer interface {
	Next(ctx context.Context) (int64, error)
}

// Generator formats register numbers from a stream code table and a Sequencer.
type Generator struct {
	codes map[string]int
	seq   Sequencer
}

// NewGenerator returns a Generator. A nil or empty codes map selects DefaultStreamCodes.
func NewGenerator(codes map[string]int, seq Sequencer) *Generator {
	if len(codes) == 0 {
		codes = DefaultStreamCodes
	}
	cp := make(map[string]int, len(codes))
	for k, v := range codes {
		cp[k] = v
	}
	return &Generator{codes: cp, seq: seq}
}

// Generate draws the next sequence value and formats a register number for it.
func (g *Generator) Generate(ctx context.Context, joiningDate string, streams []string) (string, error) {
	year, err := JoiningYear(joiningDate)
	if err != nil {
		return "", err
	}
	n, err := g.seq.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("next sequence: %w", err)
	}
	return Format(year, g.StreamSegment(streams), n), nil
}

// StreamSegment sums the codes of the selected streams and keeps the last two digits.
// Unknown streams count as 00.
func (g *Generator) StreamSegment(streams []string) string {
	sum := 0
	for _, s := range streams {
		sum += g.codes[s]
	}
	return fmt.Sprintf("%02d", sum%100)
}

// Format concatenates the three segments.
func Format(year, streamSegment string, seq int64) string {
	return fmt.Sprintf("%s%s%04d", year, streamSegment, seq)
}

// HighestSequence returns the largest sequence segment among issued register
// numbers. Malformed numbers are skipped.
func HighestSequence(registerNumbers []string) int64 {
	var top int64
	for _, rn := range registerNumbers {
		if len(rn) <= 6 {
			continue
		}
		n, err := strconv.ParseInt(rn[6:], 10, 64)
		if err != nil || n < 0 {
			continue
		}
		if n > top {
			top = n
		}
	}
	return top
}

// JoiningYear returns the first four characters of the joining date when they are digits.
func JoiningYear(joiningDate string) (string, error) {
	if len(joiningDate) < 4 {
		return "", ErrInvalidJoiningDate
	}
	y := joiningDate[:4]
	for i := 0; i < len(y); i++ {
		if y[i] < '0' || y[i] > '9' {
			return "", ErrInvalidJoiningDate
		}
	}
	return y, nil
}
