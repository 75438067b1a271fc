package mocks

import (
	"fmt"
	"strings"

	"github.com/vinodlearning/contractnlp/internal/interfaces"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

// MockTokenizer is a mock implementation of Tokenizer for testing. The
// default behavior splits on whitespace.
type MockTokenizer struct {
	TokenizeFunc func(text string) ([]string, error)
}

func (m *MockTokenizer) Tokenize(text string) ([]string, error) {
	if m.TokenizeFunc != nil {
		return m.TokenizeFunc(text)
	}
	return strings.Fields(text), nil
}

// MockTagger is a mock implementation of Tagger for testing. The default
// behavior tags capitalized words NNP, digit-bearing tokens CD and
// everything else NN.
type MockTagger struct {
	TagFunc func(tokens []string) ([]string, error)
}

func (m *MockTagger) Tag(tokens []string) ([]string, error) {
	if m.TagFunc != nil {
		return m.TagFunc(tokens)
	}
	tags := make([]string, len(tokens))
	for i, tok := range tokens {
		switch {
		case tok == "":
			tags[i] = "NN"
		case tok[0] >= 'A' && tok[0] <= 'Z':
			tags[i] = "NNP"
		case strings.ContainsAny(tok, "0123456789"):
			tags[i] = "CD"
		default:
			tags[i] = "NN"
		}
	}
	return tags, nil
}

// MockLexiconStore is an in-memory LexiconStore for testing.
type MockLexiconStore struct {
	ImportPackFunc func(name, version string, data []byte) error
	GetPackFunc    func(name string) ([]byte, error)
	ListPacksFunc  func() ([]string, error)
	packs          map[string][]byte
	order          []string
}

// NewMockLexiconStore creates a new mock lexicon store.
func NewMockLexiconStore() *MockLexiconStore {
	return &MockLexiconStore{packs: make(map[string][]byte)}
}

func (m *MockLexiconStore) ImportPack(name, version string, data []byte) error {
	if m.ImportPackFunc != nil {
		return m.ImportPackFunc(name, version, data)
	}
	if _, ok := m.packs[name]; !ok {
		m.order = append(m.order, name)
	}
	m.packs[name] = data
	return nil
}

func (m *MockLexiconStore) GetPack(name string) ([]byte, error) {
	if m.GetPackFunc != nil {
		return m.GetPackFunc(name)
	}
	if data, ok := m.packs[name]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("pack not found: %s", name)
}

func (m *MockLexiconStore) ListPacks() ([]string, error) {
	if m.ListPacksFunc != nil {
		return m.ListPacksFunc()
	}
	return append([]string(nil), m.order...), nil
}

// MockParseLogger is an in-memory ParseLogger for testing.
type MockParseLogger struct {
	LogParseFunc func(query string, result *models.ParsedQuery, durationMs int64) error
	Entries      []models.ParseLogEntry
}

func (m *MockParseLogger) LogParse(query string, result *models.ParsedQuery, durationMs int64) error {
	if m.LogParseFunc != nil {
		return m.LogParseFunc(query, result, durationMs)
	}
	m.Entries = append(m.Entries, models.ParseLogEntry{
		ID:         int64(len(m.Entries) + 1),
		Query:      query,
		Intent:     result.Intent,
		Action:     result.Action,
		Confidence: result.Confidence,
		DurationMs: durationMs,
	})
	return nil
}

func (m *MockParseLogger) RecentParses(limit int) ([]models.ParseLogEntry, error) {
	if limit > len(m.Entries) {
		limit = len(m.Entries)
	}
	out := make([]models.ParseLogEntry, 0, limit)
	for i := len(m.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Entries[i])
	}
	return out, nil
}

// Interface conformance checks.
var (
	_ interfaces.Tokenizer    = (*MockTokenizer)(nil)
	_ interfaces.Tagger       = (*MockTagger)(nil)
	_ interfaces.LexiconStore = (*MockLexiconStore)(nil)
	_ interfaces.ParseLogger  = (*MockParseLogger)(nil)
)
