package games

import "slices"

var wordBank = map[Difficulty][]string{
	Easy:   {"cat", "dog", "hat", "run", "jump"},
	Medium: {"elephant", "giraffe", "bicycle", "computer"},
	Hard:   {"extraordinary", "pneumonia", "encyclopedia"},
}

// WordsFor returns the candidate spelling words for d.
func WordsFor(d Difficulty) []string {
	return slices.Clone(wordBank[d])
}
