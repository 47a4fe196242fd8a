package utils

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// HexARGB formats an ARGB colour as "#AARRGGBB".
func HexARGB(color uint32) string {
	bytes := make([]byte, 4)
	binary.BigEndian.PutUint32(bytes, color)
	return fmt.Sprintf("#%02X%02X%02X%02X", bytes[0], bytes[1], bytes[2], bytes[3])
}

// ParseSignedARGB parses a colour stored as a signed 32-bit integer, the
// way Android serialises ARGB colours. Example: "-256" -> 0xFFFFFF00
func ParseSignedARGB(colorStr string) (uint32, error) {
	colorInt, err := strconv.ParseInt(colorStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse color string: %w", err)
	}
	if colorInt < -1<<31 || colorInt > 1<<32-1 {
		return 0, fmt.Errorf("color %s out of range", colorStr)
	}
	// Two's complement for negative values.
	return uint32(colorInt), nil
}

// TerminalColor drops the alpha channel: "#FFFFFF00" -> "#FFFF00".
func TerminalColor(color uint32) string {
	return fmt.Sprintf("#%06X", color&0xFFFFFF)
}

// ColorToCalloutType maps a highlight colour (hex ARGB) to an Obsidian
// callout type. Unknown colours are quotes.
func ColorToCalloutType(hexColor string) string {
	colorMapping := map[string]string{
		"#FFFFFF00": "quote",   // yellow
		"#FF00FF00": "success", // green
		"#FFFF00FF": "tip",     // pink
		"#FF7C4DFF": "example", // purple
		"#FF2196F3": "info",    // blue
	}

	if calloutType, ok := colorMapping[hexColor]; ok {
		return calloutType
	}
	return "quote"
}
