package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/vinodlearning/contractnlp/internal/interfaces"
)

// TaggerEngine provides part-of-speech tagging using ONNX Runtime with a
// BERT-style token classification model (INT8 quantized).
type TaggerEngine struct {
	session   *ort.AdvancedSession
	tokenizer *WordPieceTokenizer
	cache     *TagCache

	modelPath  string
	vocabPath  string
	tagsetPath string
	maxSeqLen  int
	tagset     []string

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	output        *ort.Tensor[float32]

	loaded bool
	mu     sync.Mutex
}

// NewTaggerEngine creates a tagger engine over the model files in modelDir.
// Nothing is read from disk until Load.
func NewTaggerEngine(modelDir string) *TaggerEngine {
	return &TaggerEngine{
		modelPath:  filepath.Join(modelDir, "pos_tagger_quantized.onnx"),
		vocabPath:  filepath.Join(modelDir, "vocab.txt"),
		tagsetPath: filepath.Join(modelDir, "tags.txt"),
		maxSeqLen:  128,
		cache:      NewTagCache(),
	}
}

// Load initializes the ONNX Runtime session, tokenizer and tagset. Missing
// model files are an error here, not at query time.
func (e *TaggerEngine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return nil
	}

	if _, err := os.Stat(e.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model not found at %s - run 'contractnlp model download' first", e.modelPath)
	}

	tokenizer, err := LoadWordPieceTokenizer(e.vocabPath, e.maxSeqLen)
	if err != nil {
		return fmt.Errorf("failed to load tokenizer: %w", err)
	}
	e.tokenizer = tokenizer

	tagset, err := loadTagset(e.tagsetPath)
	if err != nil {
		return fmt.Errorf("failed to load tagset: %w", err)
	}
	e.tagset = tagset

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	if err := options.SetIntraOpNumThreads(2); err != nil {
		return fmt.Errorf("failed to set threads: %w", err)
	}

	e.inputIDs, err = ort.NewTensor(ort.NewShape(1, int64(e.maxSeqLen)), make([]int64, e.maxSeqLen))
	if err != nil {
		return fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	e.attentionMask, err = ort.NewTensor(ort.NewShape(1, int64(e.maxSeqLen)), make([]int64, e.maxSeqLen))
	if err != nil {
		return fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}

	// Output: per-position tag logits [1, maxSeqLen, |tagset|]
	e.output, err = ort.NewTensor(
		ort.NewShape(1, int64(e.maxSeqLen), int64(len(e.tagset))),
		make([]float32, e.maxSeqLen*len(e.tagset)),
	)
	if err != nil {
		return fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		e.modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		[]ort.ArbitraryTensor{e.inputIDs, e.attentionMask},
		[]ort.ArbitraryTensor{e.output},
		options,
	)
	if err != nil {
		return fmt.Errorf("failed to create ONNX session: %w", err)
	}

	e.session = session
	e.loaded = true

	return nil
}

var tokenPattern = regexp.MustCompile(`[\w][\w.@$#-]*|[^\s\w]`)

// Tokenize splits text into surface tokens. Identifier-shaped tokens
// (part numbers, emails) stay whole.
func (e *TaggerEngine) Tokenize(text string) ([]string, error) {
	return tokenPattern.FindAllString(text, -1), nil
}

// Tag returns one part-of-speech tag per input token. Each token's tag is
// read from the logits of its first WordPiece. Previously tagged sequences
// are served from the cache without touching the session.
func (e *TaggerEngine) Tag(tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	key := strings.Join(tokens, " ")
	if tags, ok := e.cache.Get(key); ok {
		return tags, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return nil, fmt.Errorf("tagger engine not loaded")
	}

	ids, firstSub := e.tokenizer.EncodeTokens(tokens)

	inputData := e.inputIDs.GetData()
	maskData := e.attentionMask.GetData()
	for i := range inputData {
		inputData[i] = 0
		maskData[i] = 0
	}
	for i, id := range ids {
		inputData[i] = int64(id)
		maskData[i] = 1
	}

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	logits := e.output.GetData()
	numTags := len(e.tagset)
	tags := make([]string, len(tokens))
	for i := range tokens {
		pos := firstSub[i]
		if pos < 0 || pos >= e.maxSeqLen {
			// Truncated past the sequence cap.
			tags[i] = "NN"
			continue
		}
		best := 0
		for t := 1; t < numTags; t++ {
			if logits[pos*numTags+t] > logits[pos*numTags+best] {
				best = t
			}
		}
		tags[i] = e.tagset[best]
	}
	e.cache.Set(key, tags)
	return tags, nil
}

// Close releases ONNX Runtime resources.
func (e *TaggerEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
	if e.inputIDs != nil {
		_ = e.inputIDs.Destroy()
		e.inputIDs = nil
	}
	if e.attentionMask != nil {
		_ = e.attentionMask.Destroy()
		e.attentionMask = nil
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
	e.loaded = false

	_ = ort.DestroyEnvironment()
	return nil
}

// IsLoaded returns whether the model is loaded.
func (e *TaggerEngine) IsLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func loadTagset(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tagset file: %w", err)
	}
	var tags []string
	for _, line := range strings.Split(string(data), "\n") {
		tag := strings.TrimSpace(line)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("tagset file %s is empty", path)
	}
	return tags, nil
}

// TagCache stores previously computed tag sequences keyed by query text.
type TagCache struct {
	tags map[string][]string
	mu   sync.RWMutex
}

// NewTagCache creates a new tag cache.
func NewTagCache() *TagCache {
	return &TagCache{tags: make(map[string][]string)}
}

// Get retrieves a cached tag sequence.
func (c *TagCache) Get(key string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tags, ok := c.tags[key]
	return tags, ok
}

// Set stores a tag sequence in the cache.
func (c *TagCache) Set(key string, tags []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[key] = tags
}

// Size returns the number of cached sequences.
func (c *TagCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tags)
}

// Clear removes all cached sequences.
func (c *TagCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = make(map[string][]string)
}

// ToJSON serializes the cache to JSON.
func (c *TagCache) ToJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c.tags)
}

// FromJSON loads the cache from JSON.
func (c *TagCache) FromJSON(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Unmarshal(data, &c.tags)
}

// Interface conformance checks.
var (
	_ interfaces.Tokenizer = (*TaggerEngine)(nil)
	_ interfaces.Tagger    = (*TaggerEngine)(nil)
)
