// Package fuzzy scores project names against a typed query.
//
// Score is a subsequence matcher with positional bonuses. For each pattern
// character it keeps the best scoring occurrence seen so far as pending and
// only commits it once the next pattern character (or a repeat of the same
// one) shows up, so a later occurrence in a run can replace an earlier one.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/tormodhaugland/op/internal/model"
)

const (
	separatorBonus = 10
	adjacencyBonus = 5
	camelCaseBonus = 10

	unmatchedPenalty  = -1
	leadingPenalty    = -3
	maxLeadingPenalty = -9
)

// Score reports whether pattern is a case-insensitive subsequence of
// candidate, together with the match score (higher is better). The score
// is meaningless when the first result is false. An empty pattern matches
// everything with a score of minus the candidate length.
func Score(pattern, candidate string) (bool, int64) {
	p := []rune(pattern)
	s := []rune(candidate)

	var (
		pIdx      int
		score     int64
		prevMatch bool
		prevLower bool
		prevSep   = true

		hasBest   bool
		bestLower string
		bestScore int64
	)

	for sIdx, sChar := range s {
		hasP := pIdx < len(p)
		var pLower string
		if hasP {
			pLower = strings.ToLower(string(p[pIdx]))
		}
		sLower := strings.ToLower(string(sChar))
		sUpper := strings.ToUpper(string(sChar))

		nextMatch := hasP && pLower == sLower
		rematch := hasBest && hasP && pLower == bestLower

		advanced := nextMatch && hasBest
		if advanced || rematch {
			score += bestScore
			hasBest = false
			bestLower = ""
			bestScore = 0
		}

		if nextMatch || rematch {
			var newScore int64

			if pIdx == 0 {
				score += max(int64(sIdx)*leadingPenalty, maxLeadingPenalty)
			}
			if prevMatch {
				newScore += adjacencyBonus
			}
			if prevSep {
				newScore += separatorBonus
			}
			if prevLower && string(sChar) == sUpper && sLower != sUpper {
				newScore += camelCaseBonus
			}

			if nextMatch {
				pIdx++
			}

			if newScore > bestScore {
				if hasBest {
					score += unmatchedPenalty
				}
				hasBest = true
				bestLower = sLower
				bestScore = newScore
			}
			prevMatch = true
		} else {
			score += unmatchedPenalty
			prevMatch = false
		}

		prevLower = string(sChar) == sLower && sLower != sUpper
		prevSep = sChar == '_' || sChar == ' '
	}

	if hasBest {
		score += bestScore
	}

	return pIdx == len(p), score
}

// Match is one ranked candidate.
type Match struct {
	Entry model.ProjectEntry
	Score int64
}

// Rank scores pattern against every entry's lowercase name and returns the
// matches, best first. Equal scores keep their input order.
func Rank(pattern string, entries []model.ProjectEntry) []Match {
	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		ok, score := Score(pattern, e.Key)
		if ok {
			matches = append(matches, Match{Entry: e, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Entries returns the entries of matches in rank order.
func Entries(matches []Match) []model.ProjectEntry {
	entries := make([]model.ProjectEntry, len(matches))
	for i, m := range matches {
		entries[i] = m.Entry
	}
	return entries
}
