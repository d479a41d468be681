package shortlink

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"math/big"
	"strings"
)

//go:embed words.txt
var wordList string

// ErrLinkSpaceExhausted is returned when no unused word link could be found
// within the allowed number of attempts.
var ErrLinkSpaceExhausted = errors.New("could not allocate an unused short link")

// WordGenerator produces links made of random dictionary words,
// for example "lamp.river".
type WordGenerator struct {
	words     []string
	count     int
	separator string
}

// NewWordGenerator returns a generator over the embedded word list.
func NewWordGenerator(count int, separator string) *WordGenerator {
	return NewWordGeneratorFrom(Words(), count, separator)
}

// NewWordGeneratorFrom returns a generator over a custom word list.
func NewWordGeneratorFrom(words []string, count int, separator string) *WordGenerator {
	if count < 1 {
		count = 2
	}

	return &WordGenerator{
		words:     words,
		count:     count,
		separator: separator,
	}
}

// Words returns the embedded word list.
func Words() []string {
	var words []string

	scanner := bufio.NewScanner(strings.NewReader(wordList))
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}

	return words
}

// Generate returns a new random link.
func (g *WordGenerator) Generate() (string, error) {
	if len(g.words) == 0 {
		return "", errors.New("word list is empty")
	}

	limit := big.NewInt(int64(len(g.words)))
	parts := make([]string, g.count)

	for i := range parts {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		parts[i] = g.words[n.Int64()]
	}

	return strings.Join(parts, g.separator), nil
}
