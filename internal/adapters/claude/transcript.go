package claude

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
)

// Summarizer extracts task summaries from Claude session JSONL transcripts
type Summarizer struct{}

// NewSummarizer creates a new Summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// transcriptEntry is one JSONL line of a Claude session transcript
type transcriptEntry struct {
	Message   *transcriptMessage `json:"message,omitempty"`
	Timestamp string             `json:"timestamp,omitempty"`
	Type      string             `json:"type"`
}

type transcriptMessage struct {
	Content json.RawMessage `json:"content"`
	Role    string          `json:"role"`
}

type transcriptContent struct {
	Text string `json:"text,omitempty"`
	Type string `json:"type"`
}

const maxSummaryLength = 200

// Summarize reads the transcript at path and returns the last assistant
// text (truncated), the first entry timestamp, and the first user prompt.
// Malformed lines are skipped; an unreadable file is an error the caller
// absorbs.
func (s *Summarizer) Summarize(path string) (domain.TaskSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.TaskSummary{}, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	var summary domain.TaskSummary

	scanner := bufio.NewScanner(file)
	// Increase buffer size for large lines
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry transcriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			// Skip malformed lines
			continue
		}

		if summary.FirstTimestamp == nil && entry.Timestamp != "" {
			if t, err := time.Parse(time.RFC3339Nano, entry.Timestamp); err == nil {
				summary.FirstTimestamp = &t
			}
		}

		switch entry.Type {
		case "user", "human":
			if summary.UserPrompt == "" && entry.Message != nil {
				summary.UserPrompt = firstText(entry.Message.Content)
			}
		case "assistant":
			if entry.Message != nil {
				if text := lastText(entry.Message.Content); text != "" {
					summary.Text = truncate(text, maxSummaryLength)
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to scan transcript: %w", err)
	}

	logging.Logger.Debug("Transcript summarized",
		"path", path,
		"has_text", summary.Text != "",
		"has_prompt", summary.UserPrompt != "")
	return summary, nil
}

// firstText extracts the first text block from a message content field,
// which can be a plain string or an array of content blocks
func firstText(content json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(content, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var blocks []transcriptContent
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}
	for _, block := range blocks {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text)
		}
	}
	return ""
}

// lastText extracts the last text block from a message content field
func lastText(content json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(content, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var blocks []transcriptContent
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Type == "text" && strings.TrimSpace(blocks[i].Text) != "" {
			return strings.TrimSpace(blocks[i].Text)
		}
	}
	return ""
}

// truncate shortens text to max runes, appending an ellipsis when cut
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
