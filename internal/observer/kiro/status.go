package kiro

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/briarwood/wsmgr/internal/session"
)

// Detail is the Kiro-specific state-detail label.
type Detail string

const (
	DetailConfirmation Detail = "Confirmation"
	DetailSuccess       Detail = "Success"
	DetailExecutingTool Detail = "ExecutingTool"
	DetailThinking       Detail = "Thinking"
	DetailSessionEnded   Detail = "SessionEnded"
	DetailInactive       Detail = "Inactive"
)

type conversationValue struct {
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	User      *userEntry      `json:"user"`
	Assistant json.RawMessage `json:"assistant"`
}

type userEntry struct {
	Content json.RawMessage `json:"content"`
}

type userContentStructured struct {
	Prompt         *promptContent         `json:"Prompt"`
	ToolUseResults *toolUseResultsContent `json:"ToolUseResults"`
}

type promptContent struct {
	Prompt string `json:"prompt"`
}

type toolUseResultsContent struct {
	ToolUseResults []json.RawMessage `json:"tool_use_results"`
}

type assistantVariant struct {
	ToolUse  *toolUseBody  `json:"ToolUse"`
	Response *responseBody `json:"Response"`
}

type toolUseBody struct {
	Content  string `json:"content"`
	ToolUses []struct {
		Name string `json:"name"`
	} `json:"tool_uses"`
}

type responseBody struct {
	Content string `json:"content"`
}

// DeriveStatus parses a conversations_v2.value JSON blob and determines
// status, detail and summary from its last history entry.
func DeriveStatus(raw string) (session.Status, Detail, string) {
	var conv conversationValue
	if err := json.Unmarshal([]byte(raw), &conv); err != nil || len(conv.History) == 0 {
		return session.StatusIdle, DetailInactive, ""
	}
	return deriveFromEntry(conv.History[len(conv.History)-1])
}

func deriveFromEntry(entry historyEntry) (session.Status, Detail, string) {
	if len(entry.Assistant) > 0 {
		var variant assistantVariant
		if err := json.Unmarshal(entry.Assistant, &variant); err == nil {
			if variant.ToolUse != nil {
				return session.StatusNeedsInput, DetailConfirmation, extractToolUseSummary(variant.ToolUse)
			}
			if variant.Response != nil {
				return session.StatusSuccess, DetailSuccess, extractResponseSummary(variant.Response)
			}
		}
	}

	if entry.User != nil && len(entry.User.Content) > 0 {
		var structured userContentStructured
		if err := json.Unmarshal(entry.User.Content, &structured); err == nil {
			if structured.ToolUseResults != nil {
				return session.StatusWorking, DetailExecutingTool, "Running tools..."
			}
			if structured.Prompt != nil {
				summary := "Thinking..."
				if structured.Prompt.Prompt != "" {
					summary = truncate(structured.Prompt.Prompt, 30)
				}
				return session.StatusWorking, DetailThinking, summary
			}
		}
	}

	return session.StatusWorking, DetailThinking, "Processing..."
}

func extractToolUseSummary(tu *toolUseBody) string {
	if tu.Content != "" {
		return truncate(tu.Content, 40)
	}
	var names []string
	for i, t := range tu.ToolUses {
		if i >= 3 {
			names = append(names, "+"+strconv.Itoa(len(tu.ToolUses)-3))
			break
		}
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	if len(names) == 0 {
		return "Confirm?"
	}
	return "Confirm: " + strings.Join(names, ", ")
}

func extractResponseSummary(r *responseBody) string {
	if r.Content == "" {
		return "Done"
	}
	firstLine := r.Content
	if idx := strings.IndexByte(r.Content, '\n'); idx >= 0 {
		firstLine = r.Content[:idx]
	}
	return truncate(firstLine, 40)
}

// truncate cuts s to max characters, appending the literal "..." suffix
// when cutting (same convention as internal/observer/claude).
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
