package components

import (
	"net/url"
	"strings"

	"github.com/leapstack-labs/riskcc/internal/ui/features/common"
)

// postAction returns a datastar click expression posting to path.
// Segments are path-escaped so they cannot break out of the JS string.
func postAction(segments ...string) string {
	var path strings.Builder
	for _, s := range segments {
		path.WriteString("/")
		path.WriteString(url.PathEscape(s))
	}
	return "@post('" + path.String() + "')"
}

func toneClass(prefix string, tone common.Tone) string {
	return prefix + "-" + string(tone)
}

// clientSignals seeds the datastar signal naming this page load.
func clientSignals(clientID string) string {
	return "{clientId: '" + clientID + "'}"
}

func ariaCurrent(active bool) string {
	if active {
		return "page"
	}
	return "false"
}
