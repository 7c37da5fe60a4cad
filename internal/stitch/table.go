// Package stitch tokenizes one row's instruction text into an ordered
// operation sequence with nested repeat blocks. Parsing is pure: identical
// input always yields an identical sequence.
package stitch

import (
	"regexp"

	"github.com/jonathan/knit-tech-editor/internal/types"
)

// Effect is the static behavior of one stitch abbreviation. Adding a stitch
// type is a table edit, not a dispatch rewrite.
type Effect struct {
	Kind     types.OpKind
	Delta    int // net stitch-count change per application
	Consumed int // stitches taken off the left needle per application
}

// opTable is the closed vocabulary of stitch abbreviations.
var opTable = map[string]Effect{
	// plain stitches
	"k":    {types.KindPlain, 0, 1},
	"p":    {types.KindPlain, 0, 1},
	"sl":   {types.KindPlain, 0, 1},
	"sl1":  {types.KindPlain, 0, 1},
	"wyif": {types.KindPlain, 0, 1},
	"wyib": {types.KindPlain, 0, 1},

	// markers consume nothing
	"sm": {types.KindMarker, 0, 0},
	"pm": {types.KindMarker, 0, 0},

	// single decreases
	"k2tog": {types.KindDecrease, -1, 2},
	"ssk":   {types.KindDecrease, -1, 2},
	"p2tog": {types.KindDecrease, -1, 2},
	"ssp":   {types.KindDecrease, -1, 2},
	// double decreases
	"sk2p":  {types.KindDecrease, -2, 3},
	"s2kp":  {types.KindDecrease, -2, 3},
	"cdd":   {types.KindDecrease, -2, 3},
	"k3tog": {types.KindDecrease, -2, 3},
	"p3tog": {types.KindDecrease, -2, 3},

	// increases out of thin air
	"yo":  {types.KindIncrease, 1, 0},
	"m1":  {types.KindIncrease, 1, 0},
	"m1l": {types.KindIncrease, 1, 0},
	"m1r": {types.KindIncrease, 1, 0},
	"m1p": {types.KindIncrease, 1, 0},
	// increases worked into a stitch
	"kfb": {types.KindIncrease, 1, 1},
	"pfb": {types.KindIncrease, 1, 1},
	"kll": {types.KindIncrease, 1, 0},
	"krl": {types.KindIncrease, 1, 0},

	// psso consumes nothing extra: the slipped stitch was already worked
	"psso": {types.KindDecrease, -1, 0},

	"bo": {types.KindBindOff, -1, 1},
	"co": {types.KindCastOn, 1, 0},
}

// aliases maps spelled-out or spaced forms to canonical abbreviations. Keys
// are matched against space-joined token runs, longest first.
var aliases = map[string]string{
	"knit":         "k",
	"purl":         "p",
	"slip":         "sl",
	"slip 1":       "sl1",
	"slip marker":  "sm",
	"place marker": "pm",
	"k2 tog":       "k2tog",
	"k 2 tog":      "k2tog",
	"p2 tog":       "p2tog",
	"p 2 tog":      "p2tog",
	"k3 tog":       "k3tog",
	"p3 tog":       "p3tog",
	"kfab":         "kfb",
	"m 1":          "m1",
	"m 1 l":        "m1l",
	"m 1 r":        "m1r",
	"make 1":       "m1",
	"make 1 left":  "m1l",
	"make 1 right": "m1r",
	"yarn over":    "yo",
	"bind off":     "bo",
	"cast off":     "bo",
	"cast on":      "co",
}

// maxAliasWords is the longest alias key, in words.
const maxAliasWords = 3

// filler words the tokenizer skips outright. Anything else that looks like
// stitch vocabulary but is not in the table becomes an unknown operation.
var filler = map[string]bool{
	"st": true, "sts": true, "stitch": true, "stitches": true,
	"the": true, "a": true, "an": true, "and": true, "to": true, "of": true,
	"on": true, "in": true, "at": true, "for": true, "with": true, "as": true,
	"then": true, "more": true, "each": true, "all": true, "is": true,
	"are": true, "needle": true, "needles": true, "end": true, "ends": true,
	"row": true, "rnd": true, "round": true, "rows": true, "rnds": true,
	"beg": true, "beginning": true, "marker": true, "markers": true,
	"over": true, "from": true, "across": true, "around": true,
	"work": true, "working": true, "even": true, "established": true,
	"pattern": true, "patt": true, "times": true, "time": true,
	"twice": true, "once": true, "until": true, "last": true,
	"remain": true, "remains": true, "remaining": true, "left": true,
	"rep": true, "repeat": true, "join": true, "joining": true,
	"rs": true, "ws": true, "tbl": true, "tog": true,
	"kwise": true, "pwise": true,
}

// tokenRE matches one abbreviation with an optional trailing count, longest
// alternatives first so k2tog is not read as k2 + tog.
var tokenRE = regexp.MustCompile(`^(k3tog|p3tog|k2tog|p2tog|psso|ssk|ssp|sk2p|s2kp|cdd|kfb|pfb|kll|krl|m1l|m1r|m1p|m1|yo|sl1|sl|wyif|wyib|sm|pm|bo|co|k|p)(\d+)?$`)

// unknownRE decides whether an unmatched token is stitch-like enough to be
// preserved as an unknown operation rather than skipped as prose.
var unknownRE = regexp.MustCompile(`^[a-z]{1,6}\d{0,3}$`)

// Lookup returns the table entry for a canonical abbreviation.
func Lookup(abbrev string) (Effect, bool) {
	e, ok := opTable[abbrev]
	return e, ok
}
