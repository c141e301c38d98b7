package report

import (
	"regexp"
	"strings"
)

// The canonical report markdown uses exactly four constructs: links, ##
// headings, ### headings, and "- " bullets. Every channel projection is the
// same four substitutions with different target syntax, so the variants are
// a rule table rather than separate functions.
var (
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	headingRe = regexp.MustCompile(`(?m)^## (.+)$`)
	subheadRe = regexp.MustCompile(`(?m)^### (.+)$`)
	bulletRe  = regexp.MustCompile(`(?m)^- `)
)

// renderTarget holds the replacement syntax for one delivery channel.
type renderTarget struct {
	link    string
	heading string
	subhead string
	bullet  string
}

var (
	// Slack auto-links bare URLs, so links collapse to the URL alone.
	slackTarget = renderTarget{
		link:    "$2",
		heading: "*$1*",
		subhead: "*$1*",
		bullet:  "• ",
	}

	// Teams Adaptive Cards render markdown links natively; only headings
	// need demoting.
	teamsTarget = renderTarget{
		link:    "[$1]($2)",
		heading: "**$1**",
		subhead: "**$1**",
		bullet:  "- ",
	}

	// Rich-paste HTML for the clipboard.
	htmlTarget = renderTarget{
		link:    `<a href="$2">$1</a>`,
		heading: "<strong>$1</strong>",
		subhead: "<strong>$1</strong>",
		bullet:  "• ",
	}

	// Plain-text fallback for clients without rich-paste support: links
	// reduce to their text, headings lose their markers.
	plainTarget = renderTarget{
		link:    "$1",
		heading: "$1",
		subhead: "$1",
		bullet:  "• ",
	}
)

// rewrite applies one target's substitutions to the canonical markdown.
func rewrite(report string, target renderTarget) string {
	out := linkRe.ReplaceAllString(report, target.link)
	out = headingRe.ReplaceAllString(out, target.heading)
	out = subheadRe.ReplaceAllString(out, target.subhead)
	out = bulletRe.ReplaceAllString(out, target.bullet)
	return out
}

// FormatForSlack renders the report for Slack messages.
func FormatForSlack(report string) string {
	return rewrite(report, slackTarget)
}

// FormatForTeams renders the report for Teams Adaptive Cards.
func FormatForTeams(report string) string {
	return rewrite(report, teamsTarget)
}

// FormatAsHTML renders the report as HTML for rich-text clipboard use.
func FormatAsHTML(report string) string {
	out := rewrite(report, htmlTarget)
	return strings.ReplaceAll(out, "\n", "<br>")
}

// FormatAsPlainText renders the plain-text companion to FormatAsHTML.
func FormatAsPlainText(report string) string {
	return rewrite(report, plainTarget)
}
