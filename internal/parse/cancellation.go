package parse

import (
	"regexp"
)

var (
	scheduleDataRe = regexp.MustCompile(`(?m)scheduleData\s*=\s*(\{[\s\S]*?\})\s*$`)
	canceledPairRe = regexp.MustCompile(`"(\d+)"\s*:\s*\{[^}]*"isCanceled"\s*:\s*(true|false)`)
)

// ExtractCancellationMap pulls class-id → isCanceled pairs out of the
// scheduleData object literal embedded in the widget markup.
//
// The blob is scanned with regular expressions rather than decoded, so
// truncated or otherwise malformed JSON still yields whatever pairs are
// readable. Markup without a scheduleData assignment yields an empty map.
func ExtractCancellationMap(html string) map[string]bool {
	result := make(map[string]bool)

	match := scheduleDataRe.FindStringSubmatch(html)
	if len(match) < 2 {
		return result
	}

	for _, pair := range canceledPairRe.FindAllStringSubmatch(match[1], -1) {
		result[pair[1]] = pair[2] == "true"
	}
	return result
}
