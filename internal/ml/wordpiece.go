package ml

import (
	"fmt"
	"os"
	"strings"
)

// WordPieceTokenizer implements subword tokenization for BERT-style models.
type WordPieceTokenizer struct {
	vocab      map[string]int32
	idToToken  map[int32]string
	unkTokenID int32
	padTokenID int32
	clsTokenID int32
	sepTokenID int32
	maxSeqLen  int
}

// LoadWordPieceTokenizer loads vocabulary from vocab.txt.
func LoadWordPieceTokenizer(vocabPath string, maxSeqLen int) (*WordPieceTokenizer, error) {
	data, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocab file: %w", err)
	}

	vocab := make(map[string]int32)
	idToToken := make(map[int32]string)

	for i, line := range strings.Split(string(data), "\n") {
		token := strings.TrimSpace(line)
		if token == "" {
			continue
		}
		vocab[token] = int32(i)
		idToToken[int32(i)] = token
	}

	unkID, ok := vocab["[UNK]"]
	if !ok {
		return nil, fmt.Errorf("vocab missing [UNK] token")
	}
	padID, ok := vocab["[PAD]"]
	if !ok {
		return nil, fmt.Errorf("vocab missing [PAD] token")
	}
	clsID, ok := vocab["[CLS]"]
	if !ok {
		return nil, fmt.Errorf("vocab missing [CLS] token")
	}
	sepID, ok := vocab["[SEP]"]
	if !ok {
		return nil, fmt.Errorf("vocab missing [SEP] token")
	}

	return &WordPieceTokenizer{
		vocab:      vocab,
		idToToken:  idToToken,
		unkTokenID: unkID,
		padTokenID: padID,
		clsTokenID: clsID,
		sepTokenID: sepID,
		maxSeqLen:  maxSeqLen,
	}, nil
}

// EncodeTokens converts pre-split surface tokens into model input ids:
// [CLS] pieces... [SEP] with padding implied by the caller's mask. The
// second return value maps each surface token to the sequence position of
// its first WordPiece, or -1 when truncation dropped it.
func (t *WordPieceTokenizer) EncodeTokens(tokens []string) ([]int32, []int) {
	ids := []int32{t.clsTokenID}
	firstSub := make([]int, len(tokens))

	capacity := t.maxSeqLen - 1 // reserve the [SEP] slot
	for i, tok := range tokens {
		pieces := t.wordpiece(strings.ToLower(tok))
		if len(ids)+len(pieces) > capacity {
			for j := i; j < len(tokens); j++ {
				firstSub[j] = -1
			}
			break
		}
		firstSub[i] = len(ids)
		for _, p := range pieces {
			id, ok := t.vocab[p]
			if !ok {
				id = t.unkTokenID
			}
			ids = append(ids, id)
		}
	}
	ids = append(ids, t.sepTokenID)
	return ids, firstSub
}

// wordpiece splits a word into WordPiece tokens using greedy longest-match.
func (t *WordPieceTokenizer) wordpiece(word string) []string {
	if len(word) == 0 {
		return nil
	}

	if _, ok := t.vocab[word]; ok {
		return []string{word}
	}

	var tokens []string
	start := 0
	for start < len(word) {
		end := len(word)
		var curToken string
		found := false

		for end > start {
			substr := word[start:end]
			if start > 0 {
				substr = "##" + substr
			}
			if _, ok := t.vocab[substr]; ok {
				curToken = substr
				found = true
				break
			}
			end--
		}

		if !found {
			if start > 0 {
				tokens = append(tokens, "##"+string(word[start]))
			} else {
				tokens = append(tokens, string(word[start]))
			}
			start++
		} else {
			tokens = append(tokens, curToken)
			start = end
		}
	}
	return tokens
}
