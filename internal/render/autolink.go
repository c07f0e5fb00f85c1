package render

import "regexp"

var (
	urlPattern    = regexp.MustCompile(`(https?://[\w\d:#@%/;$()~_?+\-=\\.&]*)`)
	mailtoPattern = regexp.MustCompile(`([\w\-.]+@(\w[\w\-]+\.)+[\w\-]+)`)
)

// autolink wraps URLs and email addresses in anchor tags. The input is
// already HTML-escaped message text.
func autolink(value string) string {
	value = urlPattern.ReplaceAllString(value, `<a href="$1" target="_blank">$1</a>`)
	value = mailtoPattern.ReplaceAllString(value, `<a href="mailto:$1">$1</a>`)
	return value
}
