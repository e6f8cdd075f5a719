package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field length bounds, counted in characters.
const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxCardTextLen    = 1000
	maxMasteryLevel   = 5
)

func checkRequiredText(fields map[string]string, field, value string, max int) {
	switch {
	case strings.TrimSpace(value) == "":
		fields[field] = fmt.Sprintf("%s is required", field)
	case utf8.RuneCountInString(value) > max:
		fields[field] = fmt.Sprintf("%s must be at most %d characters", field, max)
	}
}

func checkOptionalText(fields map[string]string, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		fields[field] = fmt.Sprintf("%s must be at most %d characters", field, max)
	}
}

func checkPositiveID(fields map[string]string, field string, id int64) {
	if id <= 0 {
		fields[field] = fmt.Sprintf("%s must be a positive integer", field)
	}
}

func checkMasteryLevel(fields map[string]string, field string, level int) {
	if level < 0 || level > maxMasteryLevel {
		fields[field] = fmt.Sprintf("%s must be between 0 and %d", field, maxMasteryLevel)
	}
}
