package util

import "strings"

// MakeTextList joins items into a natural-language, Oxford-comma list, e.g.
// "a, b, and c". cmd/alpha uses it to render the set of active run modes
// (interpreting/compiling, plus "running the result") in its debug banner.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}
