package test

import (
	"strings"

	"github.com/kylelemons/godebug/diff"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorDim   = "\033[37m"
)

// Line-oriented diff of two printed outputs. Removed lines start with "-",
// added lines with "+".
func Diff(old string, new string, color bool) string {
	chunks := diff.DiffChunks(strings.Split(old, "\n"), strings.Split(new, "\n"))
	var lines []string
	for _, chunk := range chunks {
		for _, line := range chunk.Deleted {
			lines = append(lines, paint("-"+line, colorRed, color))
		}
		for _, line := range chunk.Added {
			lines = append(lines, paint("+"+line, colorGreen, color))
		}
		for _, line := range chunk.Equal {
			lines = append(lines, paint(" "+line, colorDim, color))
		}
	}
	return strings.Join(lines, "\n")
}

func paint(line string, color string, enabled bool) string {
	if !enabled {
		return line
	}
	return color + line + colorReset
}
