package sentiment

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Special tokens expected in the vocabulary file.
const (
	tokenCLS = "[CLS]"
	tokenSEP = "[SEP]"
	tokenUNK = "[UNK]"
)

// wordpieceTokenizer implements greedy longest-match-first WordPiece over a
// BERT-style vocab.txt (one token per line, line number = id, "##" marks
// continuation pieces).
type wordpieceTokenizer struct {
	vocab map[string]int64
}

func newWordpieceTokenizer(vocabPath string) (*wordpieceTokenizer, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("open vocab file: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	sc := bufio.NewScanner(f)
	var id int64
	for sc.Scan() {
		vocab[strings.TrimSpace(sc.Text())] = id
		id++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocab file: %w", err)
	}
	for _, special := range []string{tokenCLS, tokenSEP, tokenUNK} {
		if _, ok := vocab[special]; !ok {
			return nil, fmt.Errorf("vocab missing special token %s", special)
		}
	}
	return &wordpieceTokenizer{vocab: vocab}, nil
}

// Encode returns input ids and an attention mask, wrapped in [CLS]/[SEP]
// and truncated to maxTokens.
func (t *wordpieceTokenizer) Encode(text string, maxTokens int) ([]int64, []int64) {
	if maxTokens < 2 {
		maxTokens = 2
	}

	ids := []int64{t.vocab[tokenCLS]}
	for _, word := range basicTokenize(text) {
		for _, piece := range t.wordpiece(word) {
			if len(ids) >= maxTokens-1 {
				break
			}
			ids = append(ids, piece)
		}
		if len(ids) >= maxTokens-1 {
			break
		}
	}
	ids = append(ids, t.vocab[tokenSEP])

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return ids, mask
}

// wordpiece splits one lowercase word into vocab pieces, greedy longest
// match first; a word with no matching prefix becomes [UNK].
func (t *wordpieceTokenizer) wordpiece(word string) []int64 {
	runes := []rune(word)
	var pieces []int64
	start := 0
	for start < len(runes) {
		end := len(runes)
		var matched int64 = -1
		for end > start {
			candidate := string(runes[start:end])
			if start > 0 {
				candidate = "##" + candidate
			}
			if id, ok := t.vocab[candidate]; ok {
				matched = id
				break
			}
			end--
		}
		if matched < 0 {
			return []int64{t.vocab[tokenUNK]}
		}
		pieces = append(pieces, matched)
		start = end
	}
	return pieces
}

// basicTokenize lowercases, splits on whitespace, and isolates punctuation
// into its own tokens.
func basicTokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
