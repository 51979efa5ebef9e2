package render

import (
	"fmt"
	"strings"
)

// Text renders the board as plain lines, one task per line.
func Text(b Board) string {
	var sb strings.Builder
	if b.Empty {
		sb.WriteString(EmptyTitle)
		sb.WriteString("\n")
		sb.WriteString(EmptyHint)
		sb.WriteString("\n")
	} else {
		for _, c := range b.Cards {
			sb.WriteString(TextLine(c))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(StatsLine(b.Stats))
	sb.WriteString("\n")
	return sb.String()
}

func TextLine(c Card) string {
	checkbox := "[ ]"
	if c.Completed {
		checkbox = "[x]"
	}
	due := "Due: " + c.DueLabel
	if c.DueHint != "" {
		due += " (" + c.DueHint + ")"
	}
	return fmt.Sprintf("%s %s [%s] %s", checkbox, c.Title, c.Category, due)
}

func StatsLine(s Stats) string {
	return fmt.Sprintf("Total: %d • Completed: %d • Pending: %d", s.Total, s.Completed, s.Pending)
}
