// Package extract turns positioned page text into device count
// snapshots. Drawing sets encode symbol tags with doubled characters
// ("F2" renders as "FF22", some fixtures quad-doubled as "FFFF5555"),
// so decoding works on repeat structure rather than fixed token lists.
package extract

import (
	"regexp"
	"strings"
)

// tagShape is the decoded form of a fixture tag: a letter, one or two
// digits, and an optional variant letter (F2, F10, F4E).
var tagShape = regexp.MustCompile(`^[A-Z]\d{1,2}[A-Z]?$`)

// defaultFixtureTags is the stock set of tags recognized on lighting
// plans. An empty set in a PatternSet disables the filter.
var defaultFixtureTags = map[string]bool{
	"F2": true, "F3": true, "F4": true, "F4E": true, "F5": true,
	"F7": true, "F7E": true, "F8": true, "F9": true, "F10": true,
	"F11": true, "X1": true, "X2": true,
}

// JackPattern maps a technology token to the number of data jacks it
// represents.
type JackPattern struct {
	Pattern *regexp.Regexp
	Jacks   int
}

// defaultJackPatterns is the stock technology token table. Wall plates
// carry their port count in the tag; device tags carry typical port
// counts for that device class.
var defaultJackPatterns = []JackPattern{
	{regexp.MustCompile(`^WP1$`), 1},
	{regexp.MustCompile(`^WP2$`), 2},
	{regexp.MustCompile(`^WP4$`), 4},
	{regexp.MustCompile(`^1C$`), 1},
	{regexp.MustCompile(`^2C$`), 2},
	{regexp.MustCompile(`^4C$`), 4},
	{regexp.MustCompile(`^C1$`), 1},
	{regexp.MustCompile(`^C2$`), 2},
	{regexp.MustCompile(`^C4$`), 4},
	{regexp.MustCompile(`^1PW$`), 1},
	{regexp.MustCompile(`^2PW$`), 2},
	{regexp.MustCompile(`^[124]P[KF]$`), 1},
	{regexp.MustCompile(`^KP\d?$`), 1},
	{regexp.MustCompile(`^CR\d?$`), 1},
	{regexp.MustCompile(`^AP\d?$`), 2},
	{regexp.MustCompile(`^CAM\d?$`), 1},
	{regexp.MustCompile(`^TV\d?$`), 2},
	{regexp.MustCompile(`^PRJ\d?$`), 2},
	{regexp.MustCompile(`^WS\d?$`), 2},
	{regexp.MustCompile(`^DATA$`), 1},
	{regexp.MustCompile(`^DO$`), 1},
}

// PatternSet carries the token tables one extraction pass matches
// against. The zero value is not useful; build one with
// DefaultPatternSet and override fields as needed.
type PatternSet struct {
	// FixtureTags filters decoded doubled tags. Empty accepts any tag
	// with a valid shape.
	FixtureTags map[string]bool

	// JackPatterns maps technology tokens to jack counts.
	JackPatterns []JackPattern
}

// DefaultPatternSet returns the stock pattern tables.
func DefaultPatternSet() PatternSet {
	return PatternSet{
		FixtureTags:  defaultFixtureTags,
		JackPatterns: defaultJackPatterns,
	}
}

// DecodeDoubled decodes one doubled token into its tag. It halves the
// token as long as every character is paired, so quad-doubled tokens
// reduce in two steps (FFFF5555 -> FF55 -> F5). Returns false when the
// token is not a doubled tag.
func DecodeDoubled(token string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(token))
	reduced := false
	for {
		half, ok := halvePairs(s)
		if !ok {
			break
		}
		s = half
		reduced = true
	}
	if !reduced || !tagShape.MatchString(s) {
		return "", false
	}
	return s, true
}

// halvePairs collapses a fully character-paired string to its half.
func halvePairs(s string) (string, bool) {
	if len(s) < 4 || len(s)%2 != 0 {
		return "", false
	}
	var b strings.Builder
	for i := 0; i < len(s); i += 2 {
		if s[i] != s[i+1] || !isAlnum(s[i]) {
			return "", false
		}
		b.WriteByte(s[i])
	}
	return b.String(), true
}

// FindDoubledTags scans free text for doubled tag encodings. Pairing is
// greedy, so a six-character doubled token decodes as one three-character
// tag rather than the four-character tag embedded in its prefix.
func FindDoubledTags(text string) []string {
	text = strings.ToUpper(text)
	var tags []string
	i := 0
	for i+3 < len(text) {
		var half []byte
		j := i
		for j+1 < len(text) && text[j] == text[j+1] && isAlnum(text[j]) {
			half = append(half, text[j])
			j += 2
		}
		if len(half) >= 2 {
			if tag, ok := DecodeDoubled(doubleBack(half)); ok {
				tags = append(tags, tag)
				i = j
				continue
			}
		}
		i++
	}
	return tags
}

// doubleBack re-doubles a half string so DecodeDoubled can run its full
// reduction, covering quad-doubled runs found inside larger text.
func doubleBack(half []byte) string {
	var b strings.Builder
	for _, c := range half {
		b.WriteByte(c)
		b.WriteByte(c)
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// FloorDiv de-duplicates a raw symbol count across floor views by
// truncating division. Most symbol families read low rather than high,
// so partial leftovers are dropped.
func FloorDiv(count, floors int) int {
	if floors <= 1 {
		return count
	}
	return count / floors
}

// CeilDiv de-duplicates floor box counts across floor views, rounding
// up. Floor boxes are cut into the slab; missing one costs far more
// than over-counting, so leftovers round toward an extra box.
func CeilDiv(count, floors int) int {
	if floors <= 1 {
		return count
	}
	return (count + floors - 1) / floors
}
