package kiosk

import (
	"strconv"
	"strings"
)

// digitRows is how tall the countdown banners draw.
const digitRows = 5

// bigDigits maps 0-9 onto five-row banners sized for across-the-room
// readability.
var bigDigits = map[rune][digitRows]string{
	'0': {"█████", "█   █", "█   █", "█   █", "█████"},
	'1': {"   █ ", "  ██ ", "   █ ", "   █ ", "  ███"},
	'2': {"█████", "    █", "█████", "█    ", "█████"},
	'3': {"█████", "    █", " ████", "    █", "█████"},
	'4': {"█  █ ", "█  █ ", "█████", "   █ ", "   █ "},
	'5': {"█████", "█    ", "█████", "    █", "█████"},
	'6': {"█████", "█    ", "█████", "█   █", "█████"},
	'7': {"█████", "    █", "   █ ", "  █  ", "  █  "},
	'8': {"█████", "█   █", "█████", "█   █", "█████"},
	'9': {"█████", "█   █", "█████", "    █", "█████"},
}

// bigNumber renders n as side-by-side banner digits. Negative counts render
// as zero; the countdown never goes below it anyway.
func bigNumber(n int) string {
	if n < 0 {
		n = 0
	}
	var rows [digitRows][]string
	for _, r := range strconv.Itoa(n) {
		d, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := 0; i < digitRows; i++ {
			rows[i] = append(rows[i], d[i])
		}
	}
	lines := make([]string, digitRows)
	for i := range rows {
		lines[i] = strings.Join(rows[i], "  ")
	}
	return strings.Join(lines, "\n")
}
