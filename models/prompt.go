// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
)

// Prompt is one evaluation prompt. Exactly one of the three content
// variants is populated: word pair (Word1+Word2), Headline, or
// URL(+PromptText). Prompts are immutable once ingested.
type Prompt struct {
	ID         string `json:"prompt_id"`
	Word1      string `json:"word1,omitempty"`
	Word2      string `json:"word2,omitempty"`
	Headline   string `json:"headline,omitempty"`
	URL        string `json:"url,omitempty"`
	PromptText string `json:"prompt_text,omitempty"`
}

// NewPrompt validates the closed variant and the ID-to-task mapping.
func NewPrompt(id, word1, word2, headline, url, promptText string) (Prompt, error) {
	p := Prompt{ID: id, Word1: word1, Word2: word2, Headline: headline, URL: url, PromptText: promptText}
	if _, err := TaskForPromptID(id); err != nil {
		return Prompt{}, err
	}
	switch {
	case p.Word1 != "":
		if p.Word2 == "" || p.Headline != "" || p.URL != "" || p.PromptText != "" {
			return Prompt{}, fmt.Errorf("prompt %q: word1 requires word2 and excludes headline, url and prompt text", id)
		}
	case p.Headline != "":
		if p.Word2 != "" || p.URL != "" || p.PromptText != "" {
			return Prompt{}, fmt.Errorf("prompt %q: headline excludes word pair, url and prompt text", id)
		}
	case p.URL != "":
		if p.Word2 != "" {
			return Prompt{}, fmt.Errorf("prompt %q: url excludes word pair", id)
		}
	default:
		return Prompt{}, fmt.Errorf("prompt %q: one of word pair, headline or url must be set", id)
	}
	return p, nil
}

// Task derives the prompt's task from its ID prefix.
func (p Prompt) Task() Task {
	t, _ := TaskForPromptID(p.ID)
	return t
}

// Language returns the prompt language code; image prompts are English.
func (p Prompt) Language() string {
	switch {
	case strings.HasPrefix(p.ID, "es_"):
		return "es"
	case strings.HasPrefix(p.ID, "zh_"):
		return "zh"
	}
	return "en"
}

// Verbalized renders the prompt as shown to voters, localized for the
// text tasks. Image prompts render their caption instruction text.
func (p Prompt) Verbalized() string {
	switch {
	case p.Word1 != "" && p.Word2 != "":
		switch p.Language() {
		case "es":
			return fmt.Sprintf("La salidas deben contener las palabras <b>%s</b> y <b>%s</b>.", p.Word1, p.Word2)
		case "zh":
			return fmt.Sprintf("输出需要包含词语“<b>%s</b>”和“<b>%s</b>”。", p.Word1, p.Word2)
		default:
			return fmt.Sprintf("The outputs must contain the words <b>%s</b> and <b>%s</b>.", p.Word1, p.Word2)
		}
	case p.Headline != "":
		switch p.Language() {
		case "es":
			return fmt.Sprintf("<b>Titular:</b> %s", p.Headline)
		case "zh":
			return fmt.Sprintf("<b>新闻标题:</b> %s", p.Headline)
		default:
			return fmt.Sprintf("<b>News headline:</b> %s", p.Headline)
		}
	}
	return p.PromptText
}
