package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrLLMDisabled is returned when no LLM client is configured.
var ErrLLMDisabled = errors.New("llm: no API key configured")

// currentDate returns today's date in ISO 8601 format (UTC).
func currentDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// BuildCommentsText numbers comments for the digest prompt and stops once
// maxChars is reached. It returns the text and the number of comments used.
func BuildCommentsText(lines []CommentLine, maxChars int) (string, int) {
	var sb strings.Builder
	used := 0
	for i, l := range lines {
		text := OneLine(l.Text)
		if text == "" {
			continue
		}
		entry := fmt.Sprintf("[%d] %s", i+1, l.Author)
		if l.Likes != "" {
			entry += " (" + l.Likes + " likes)"
		}
		entry += ": " + TruncateRunes(text, 500, "...") + "\n"
		if maxChars > 0 && sb.Len()+len(entry) > maxChars && used > 0 {
			break
		}
		sb.WriteString(entry)
		used++
	}
	return sb.String(), used
}

const defaultDigestMaxTokens = 1500

// digestParams returns the sampling settings of digest calls, from
// LLM_TEMPERATURE and LLM_MAX_TOKENS.
func digestParams() (temperature float64, maxTokens int) {
	maxTokens = cfg.LLMMaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultDigestMaxTokens
	}
	return cfg.LLMTemperature, maxTokens
}

// SummarizeComments asks the LLM for a structured digest of lines.
func SummarizeComments(ctx context.Context, videoID string, lines []CommentLine) (*CommentDigest, error) {
	if len(lines) == 0 {
		return &CommentDigest{Summary: "No comments to summarize."}, nil
	}
	text, used := BuildCommentsText(lines, cfg.MaxDigestChars)
	prompt := fmt.Sprintf(promptDigest, currentDate(), videoID, used, text)

	if cfg.LLMClient == nil {
		return nil, ErrLLMDisabled
	}
	metrics.LLMCalls.Add(1)
	temperature, maxTokens := digestParams()
	raw, err := cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(temperature),
		llm.WithChatMaxTokens(maxTokens),
	)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return nil, fmt.Errorf("digest: %w", err)
	}
	raw = stripFences(raw)

	var out CommentDigest
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if summary := ExtractJSONString(raw, "summary"); summary != "" {
			return &CommentDigest{Summary: summary}, nil
		}
		return &CommentDigest{Summary: raw}, nil
	}
	return &out, nil
}

// ExtractJSONString extracts a string field from malformed JSON
// where the value may contain unescaped newlines or special characters.
func ExtractJSONString(raw, field string) string {
	prefix := `"` + field + `"`
	idx := strings.Index(raw, prefix)
	if idx < 0 {
		return ""
	}
	rest := raw[idx+len(prefix):]
	rest = strings.TrimSpace(rest)
	if len(rest) == 0 || rest[0] != ':' {
		return ""
	}
	rest = strings.TrimSpace(rest[1:])
	if len(rest) == 0 || rest[0] != '"' {
		return ""
	}
	rest = rest[1:] // skip opening quote

	var sb strings.Builder
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\\' && i+1 < len(rest) {
			if rest[i+1] == '"' {
				sb.WriteByte('"')
				i++
				continue
			}
			if rest[i+1] == 'n' {
				sb.WriteByte('\n')
				i++
				continue
			}
			sb.WriteByte(rest[i])
			continue
		}
		if rest[i] == '"' {
			return sb.String()
		}
		sb.WriteByte(rest[i])
	}
	return sb.String()
}
