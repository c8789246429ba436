package schema

import (
	"strconv"
	"strings"
)

// UngradedRank marks skills whose grade label cannot be interpreted.
// The value is far from real ranks so grade-difference checks never
// pair ungraded skills by accident.
const UngradedRank = -100

// GradeRank converts a grade label to its numeric rank.
// PreK=-1, K=0, numeric grades 1-12 as themselves. Labels like
// "Grade 3" or "G3" are tolerated. Anything else is UngradedRank.
func GradeRank(label string) int {
	s := strings.TrimSpace(strings.ToLower(label))
	switch s {
	case "prek", "pre-k", "pk":
		return -1
	case "k", "kindergarten":
		return 0
	}
	s = strings.TrimPrefix(s, "grade")
	s = strings.TrimPrefix(s, "g")
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return UngradedRank
	}
	return n
}

// Complexity bands summarize grade spans of a master concept.
const (
	BandK2      = "K-2"
	Band35      = "3-5"
	Band68      = "6-8"
	Band912     = "9-12"
	BandMixed   = "Mixed"
	BandUnknown = "Unknown"
)

// Band returns the complexity band of a single grade rank.
// PreK folds into K-2. Ungraded ranks return BandUnknown.
func Band(rank int) string {
	switch {
	case rank == UngradedRank:
		return BandUnknown
	case rank <= 2:
		return BandK2
	case rank <= 5:
		return Band35
	case rank <= 8:
		return Band68
	default:
		return Band912
	}
}

// BandForRanks derives the complexity band of a set of grade ranks.
// A span across multiple bands is Mixed; no usable grades is Unknown.
func BandForRanks(ranks []int) string {
	res := ""
	for _, r := range ranks {
		if r == UngradedRank {
			continue
		}
		b := Band(r)
		if res == "" {
			res = b
			continue
		}
		if res != b {
			return BandMixed
		}
	}
	if res == "" {
		return BandUnknown
	}
	return res
}
