package config

import (
	"fmt"
	"regexp"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ExtractLine pulls the line number out of a YAML decoder error, or 0.
func ExtractLine(err error) int {
	return extractLine(err)
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
