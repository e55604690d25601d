package mailbox

import "strings"

// quoteMarkers start quoted history in a reply. Each needs a preceding line
// break, so the first line of a reply is never cut.
var quoteMarkers = []string{
	"\nOn ",
	"\nFrom:",
	"\n-----Original Message-----",
	"\n> ",
}

// StripQuotedReply keeps the text before the earliest quote marker.
func StripQuotedReply(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	cut := len(text)
	for _, marker := range quoteMarkers {
		if i := strings.Index(text, marker); i != -1 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(text[:cut])
}
