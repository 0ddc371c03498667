// Package ai turns article text into short cybersecurity summaries.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/cyberdigest/internal/logger"
)

const (
	SystemInstruction = "You are a cybersecurity news summarizer. Provide a concise summary of the given text, focusing on key threats, vulnerabilities, and significant developments. Keep it to around 100-150 words."

	skippedPrefix = "AI summarization skipped (API key not set). Original text (first 200 chars): "
	failedPrefix  = "AI summarization failed. Original text (first 200 chars): "

	previewRunes   = 200
	requestTimeout = 60 * time.Second
)

// Request is one completion call.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Completer is a chat-style completion backend.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is a summary and how it was produced. Text is never empty.
type Result struct {
	Text   string
	Status Status
	Err    error
}

// Summarizer summarizes through a Completer. A nil Completer means no
// credential is configured and every call degrades to a placeholder.
type Summarizer struct {
	completer   Completer
	maxTokens   int
	temperature float32
}

func NewSummarizer(c Completer, maxTokens int, temperature float32) *Summarizer {
	return &Summarizer{completer: c, maxTokens: maxTokens, temperature: temperature}
}

func (s *Summarizer) Summarize(ctx context.Context, text string) Result {
	if s.completer == nil {
		logger.Warn("AI credential not set, summarization skipped")
		return Result{Text: skippedPrefix + preview(text) + "...", Status: StatusSkipped}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	out, err := s.completer.Complete(ctx, Request{
		System:      SystemInstruction,
		User:        "Summarize the following cybersecurity article:\n\n" + text,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err == nil {
		out = strings.TrimSpace(out)
		if out == "" {
			err = fmt.Errorf("empty completion")
		}
	}
	if err != nil {
		logger.Error("AI summarization failed", "err", err)
		return Result{Text: failedPrefix + preview(text) + "...", Status: StatusFailed, Err: err}
	}
	return Result{Text: out, Status: StatusOK}
}

// IsPlaceholder reports whether summary is a degraded fallback text.
func IsPlaceholder(summary string) bool {
	return strings.HasPrefix(summary, skippedPrefix) || strings.HasPrefix(summary, failedPrefix)
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes])
	}
	return s
}
