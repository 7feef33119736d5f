package guess

import (
	"fmt"
	"strings"
)

type Mark string

const (
	Correct       Mark = "correct"
	WrongPosition Mark = "wrong position"
	NotInWord     Mark = "not in word"
)

type LetterFeedback struct {
	Letter string
	Mark   Mark
}

func (f LetterFeedback) String() string {
	return fmt.Sprintf("%s (%s)", strings.ToUpper(f.Letter), f.Mark)
}

// Feedback compares guess and word position by position over the shorter
// of the two. A letter that is not at its position but appears anywhere in
// word is WrongPosition, even when word holds fewer copies of it than
// guess does.
func Feedback(guess, word string) []LetterFeedback {
	g, w := []rune(guess), []rune(word)
	n := min(len(g), len(w))

	out := make([]LetterFeedback, 0, n)
	for i := 0; i < n; i++ {
		mark := NotInWord
		switch {
		case g[i] == w[i]:
			mark = Correct
		case strings.ContainsRune(word, g[i]):
			mark = WrongPosition
		}
		out = append(out, LetterFeedback{Letter: string(g[i]), Mark: mark})
	}
	return out
}
