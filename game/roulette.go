package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Pocket is one of the 38 pockets of an American wheel: 0, 1-36 and the
// double zero.
type Pocket int

// DoubleZero is the 38th pocket, rendered "00".
const DoubleZero Pocket = 37

const WheelPockets = 38

// PocketColor classifies pockets for color wagers. Green never pays.
type PocketColor string

const (
	Red   PocketColor = "red"
	Black PocketColor = "black"
	Green PocketColor = "green"
)

var redNumbers = map[Pocket]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true,
	16: true, 18: true, 19: true, 21: true, 23: true, 25: true, 27: true,
	30: true, 32: true, 34: true, 36: true,
}

// Color returns the pocket's color on the American layout.
func (p Pocket) Color() PocketColor {
	if p == 0 || p == DoubleZero {
		return Green
	}
	if redNumbers[p] {
		return Red
	}
	return Black
}

func (p Pocket) String() string {
	if p == DoubleZero {
		return "00"
	}
	return strconv.Itoa(int(p))
}

// ParsePocket accepts "00", "0" or "1".."36".
func ParsePocket(s string) (Pocket, error) {
	s = strings.TrimSpace(s)
	if s == "00" {
		return DoubleZero, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 36 {
		return 0, fmt.Errorf("pocket must be 00, 0 or 1-36, got %q", s)
	}
	return Pocket(n), nil
}

// ParseColor accepts the two bettable colors.
func ParseColor(s string) (PocketColor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "black":
		return Black, nil
	}
	return "", fmt.Errorf("color must be red or black, got %q", s)
}

// SpinWheel draws one uniform pocket.
func SpinWheel(rng RNG) Pocket {
	return Pocket(rng.Intn(WheelPockets))
}
