package bowling

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRoll converts a single roll token into a pin count.
//
// The grammar is fixed: "0".."10", "X"/"x" for a strike, "-" (plus the
// unicode dashes users paste in) for a miss, and "/" for a spare. A spare is
// context dependent, so the first roll of the frame must be supplied via
// first/haveFirst; "/" without a preceding roll is an error.
func ParseRoll(token string, first int, haveFirst bool) (int, error) {
	switch strings.TrimSpace(token) {
	case "":
		return 0, fmt.Errorf("empty roll")
	case "X", "x":
		return MaxPins, nil
	case "-", "–", "—":
		return 0, nil
	case "/":
		if !haveFirst {
			return 0, fmt.Errorf("a spare needs a first roll to complete")
		}
		if first >= MaxPins {
			return 0, fmt.Errorf("a spare cannot follow a strike")
		}
		return MaxPins - first, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid roll", token)
	}
	if n < 0 || n > MaxPins {
		return 0, fmt.Errorf("a roll must be between 0 and %d pins", MaxPins)
	}
	return n, nil
}
