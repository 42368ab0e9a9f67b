package nodes

import "strings"

// StatusLevel picks the flag a node card displays: the secondary flag (DRAIN,
// NOT_RESPONDING, ...) wins over the base state.
func StatusLevel(state []string) string {
	if len(state) > 1 && state[1] != "" {
		return strings.ToUpper(state[1])
	}
	if len(state) > 0 {
		return strings.ToUpper(state[0])
	}
	return ""
}

// StatusColor maps a status level to the card color.
func StatusColor(level string) string {
	switch strings.ToUpper(level) {
	case "DRAIN", "NOT_RESPONDING", "DOWN":
		return "blue"
	case "IDLE":
		return "green"
	case "MIXED":
		return "orange"
	case "PLANNED":
		return "purple"
	case "ALLOCATED":
		return "red"
	case "COMPLETING":
		return "yellow"
	default:
		return "gray"
	}
}

// StatusDefinition is the human explanation shown on the node card.
func StatusDefinition(level string) string {
	switch strings.ToUpper(level) {
	case "DRAIN", "NOT_RESPONDING", "DOWN":
		return "This System is currently unavailable. This could be due to maintenance, or hardware issues."
	case "IDLE":
		return "System is idle ready for use."
	case "MIXED":
		return "System is currently in use, but not fully allocated."
	case "ALLOCATED":
		return "System is fully allocated."
	case "COMPLETING":
		return "System is currently in the process of completing a task."
	case "PLANNED":
		return "System is being prepared for use."
	case "RESERVED":
		return "System is reserved for maintenance."
	case "FUTURE":
		return "System is reserved for future use."
	case "REBOOT_REQUESTED":
		return "System currently has a reboot request pending."
	default:
		return "System status unknown, this is likely due to the system being offline."
	}
}
