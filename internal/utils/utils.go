package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SetLogLevel(level string) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		log.Fatal("Bad error level string")
	}
}

// ParseARGB parses a color written as 0xAARRGGBB, #AARRGGBB or a bare
// 8-digit hex string. A 6-digit value is treated as fully opaque.
func ParseARGB(s string) (uint32, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "0x")
	hex = strings.TrimPrefix(hex, "0X")
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 8:
	case 6:
		hex = "FF" + hex
	default:
		return 0, fmt.Errorf("invalid color %q: want 6 or 8 hex digits", s)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(n), nil
}

// FormatARGB renders a color as 0xAARRGGBB.
func FormatARGB(c uint32) string {
	return fmt.Sprintf("0x%08X", c)
}
