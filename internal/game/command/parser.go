package command

import "strings"

// BatchSeparator splits one input line into independent commands.
const BatchSeparator = ";"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command, lowercased.
	Args []string
}

// SplitBatch splits line on BatchSeparator, trims each segment, and drops
// empty segments.
//
// Postcondition: No returned segment is empty or has surrounding whitespace.
func SplitBatch(line string) []string {
	var out []string
	for _, seg := range strings.Split(line, BatchSeparator) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Parse lowercases a single command segment and splits it into a command and
// arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: fields[0]}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}
