package journey

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Journey represents one query's trip through the pipeline
type Journey struct {
	Timestamp time.Time     `json:"timestamp"`
	Query     string        `json:"query"`
	Steps     []Step        `json:"steps"`
	Intent    models.Intent `json:"intent,omitempty"`
	Action    models.Action `json:"action,omitempty"`
}

// Step represents a distinct pipeline stage (e.g., typo, grammar, entity)
type Step struct {
	Stage      string  `json:"stage"`       // "typo", "grammar", "normalize", "entity", "intent"
	Changes    int     `json:"changes"`     // corrections/transformations/entities produced
	Confidence float64 `json:"confidence"`  // stage confidence, where the stage has one
	DurationMs int64   `json:"duration_ms"` // time taken for this stage
	Details    string  `json:"details,omitempty"`
}

// Logger handles writing journeys to file
type Logger struct {
	mu          sync.Mutex
	current     *Journey
	logFilePath string
}

var instance *Logger
var once sync.Once

// GetLogger returns the singleton logger instance
func GetLogger() *Logger {
	once.Do(func() {
		home, _ := os.UserHomeDir()
		logPath := filepath.Join(home, ".contractnlp", "query_journey.json")
		instance = &Logger{
			logFilePath: logPath,
		}
	})
	return instance
}

// StartNewJourney begins a new logging session
func (l *Logger) StartNewJourney(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &Journey{
		Timestamp: time.Now(),
		Query:     query,
		Steps:     make([]Step, 0),
	}
}

// AddStep records a pipeline stage
func (l *Logger) AddStep(stage string, changes int, confidence float64, duration time.Duration, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	l.current.Steps = append(l.current.Steps, Step{
		Stage:      stage,
		Changes:    changes,
		Confidence: confidence,
		DurationMs: duration.Milliseconds(),
		Details:    details,
	})
}

// EndJourney finalizes the log and writes to file (append mode)
func (l *Logger) EndJourney(intent models.Intent, action models.Action) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return
	}

	l.current.Intent = intent
	l.current.Action = action

	// Append to file (JSONL format for simplicity: one JSON object per line)
	if err := os.MkdirAll(filepath.Dir(l.logFilePath), 0755); err != nil {
		fmt.Printf("Warning: Failed to create journey log directory: %v\n", err)
		return
	}
	f, err := os.OpenFile(l.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Warning: Failed to write journey log: %v\n", err)
		return
	}
	defer f.Close()

	data, _ := json.Marshal(l.current)
	f.Write(data)
	f.WriteString("\n")

	l.current = nil // Reset
}
