// Package fuzzy ranks candidate names by edit distance for "did you mean"
// suggestions.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher finds near misses among a set of candidates.
type Matcher struct {
	maxDistance int
	minLength   int
	normalize   func(string) string
}

// NewMatcher creates a matcher accepting candidates within maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{maxDistance: maxDistance, minLength: 2}
}

// WithNormalize sets a function applied to the input and every candidate
// before comparing, such as stripping option prefixes.
func (m *Matcher) WithNormalize(fn func(string) string) *Matcher {
	m.normalize = fn
	return m
}

// Match is one accepted candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate, or "" when none is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every acceptable candidate, best first. Ties keep
// candidate order.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	in := strings.ToLower(m.norm(input))
	if len(in) < m.minLength {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		cand := strings.ToLower(m.norm(c))
		if cand == in {
			continue
		}
		d := m.levenshteinDistance(in, cand)
		if d > m.maxDistance || d >= len(in) {
			continue
		}
		matches = append(matches, Match{Value: c, Distance: d, Score: m.calculateScore(in, cand, d)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func (m *Matcher) norm(s string) string {
	if m.normalize == nil {
		return s
	}
	return m.normalize(s)
}

// calculateScore weighs edit distance with bonuses for a shared prefix and
// similar length.
func (m *Matcher) calculateScore(a, b string, distance int) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	score := 1.0 - float64(distance)/float64(maxLen)

	if p := commonPrefixLength(a, b); p > 0 {
		score += float64(p) / float64(min(len(a), len(b))) * 0.3
	}
	score += (1.0 - float64(abs(len(a)-len(b)))/float64(maxLen)) * 0.2

	return min(score, 1.0)
}

// levenshteinDistance is the edit distance between a and b, cut off at
// maxDistance+1.
func (m *Matcher) levenshteinDistance(a, b string) int {
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
