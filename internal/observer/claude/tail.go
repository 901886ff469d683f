package claude

import (
	"encoding/json"
	"os"
	"strings"
)

// jsonlTailMaxBytes bounds how much of a transcript file is read from the
// end before parsing.
const jsonlTailMaxBytes = 32768

// Detail is the derived state-detail label.
type Detail string

const (
	DetailExecutingTool Detail = "ExecutingTool"
	DetailThinking       Detail = "Thinking"
	DetailInactive       Detail = "Inactive"
)

type contentKind string

const (
	kindNone       contentKind = ""
	kindToolUse    contentKind = "tool_use"
	kindText       contentKind = "text"
	kindThinking   contentKind = "thinking"
	kindToolResult contentKind = "tool_result"
	kindUserText   contentKind = "user_text"
)

// TailResult is everything the rich-status mapper needs from a transcript
// tail parse.
type TailResult struct {
	Detail            Detail
	ToolName          string // set when Detail == ExecutingTool
	LastAssistantText string // truncated to 50 chars, "..." if cut
	LastUserInput     string // truncated to 80 chars, "..." if cut
	HasEntries        bool
}

type rawLine struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

type messageBody struct {
	Content json.RawMessage `json:"content"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// TailParse reads up to jsonlTailMaxBytes from the end of the transcript at
// path, discards a partial first line if the read didn't start at byte
// zero, and walks the remaining entries backwards to derive rich status.
func TailParse(path string) (TailResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return TailResult{Detail: DetailInactive}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return TailResult{Detail: DetailInactive}, err
	}

	size := info.Size()
	var start int64
	if size > jsonlTailMaxBytes {
		start = size - jsonlTailMaxBytes
	}

	buf := make([]byte, size-start)
	if _, err := f.ReadAt(buf, start); err != nil && size-start > 0 {
		return TailResult{Detail: DetailInactive}, err
	}

	lines := strings.Split(string(buf), "\n")
	if start > 0 && len(lines) > 0 {
		// The read did not begin at byte zero, so the first entry is
		// possibly a partial line from the middle of a JSON object.
		lines = lines[1:]
	}

	var (
		kind              contentKind
		entryType         string
		toolName          string
		lastAssistantText string
		lastUserInput     string
		haveKind          bool
		haveUserInput     bool
		hasEntries        bool
	)

	for i := len(lines) - 1; i >= 0 && !(haveKind && haveUserInput); i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var entry rawLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // malformed line, skipped silently
		}
		hasEntries = true

		items := parseContentItems(entry.Message)

		switch entry.Type {
		case "assistant":
			if haveKind {
				continue
			}
			if k, tn, text, ok := classifyAssistant(items); ok {
				kind = k
				entryType = "assistant"
				toolName = tn
				lastAssistantText = text
				haveKind = true
			}
		case "user":
			if !haveUserInput {
				if text, ok := classifyUserText(items); ok {
					lastUserInput = text
					haveUserInput = true
				}
			}
			if !haveKind {
				if k, ok := classifyUserKind(items); ok {
					kind = k
					entryType = "user"
					haveKind = true
				}
			}
		default:
			// progress entries and anything else are ignored.
		}
	}

	return TailResult{
		Detail:            stateDetail(entryType, kind),
		ToolName:          toolName,
		LastAssistantText: truncate(lastAssistantText, 50),
		LastUserInput:     truncate(lastUserInput, 80),
		HasEntries:        hasEntries,
	}, nil
}

func parseContentItems(msg json.RawMessage) []contentItem {
	if len(msg) == 0 {
		return nil
	}
	var body messageBody
	if err := json.Unmarshal(msg, &body); err != nil {
		return nil
	}
	var items []contentItem
	if err := json.Unmarshal(body.Content, &items); err == nil {
		return items
	}
	// content may be a bare string rather than an item array; treat as a
	// single text item.
	var s string
	if err := json.Unmarshal(body.Content, &s); err == nil && s != "" {
		return []contentItem{{Type: "text", Text: s}}
	}
	return nil
}

// classifyAssistant finds the most-recent-within-this-entry content kind
// among tool_use, text, and thinking items.
func classifyAssistant(items []contentItem) (contentKind, string, string, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		switch it.Type {
		case "tool_use":
			return kindToolUse, it.Name, "", true
		case "text":
			return kindText, "", it.Text, true
		case "thinking":
			return kindThinking, "", "", true
		}
	}
	return kindNone, "", "", false
}

func classifyUserText(items []contentItem) (string, bool) {
	for _, it := range items {
		if it.Type != "text" {
			continue
		}
		if strings.HasPrefix(it.Text, "[Request interrupted") {
			continue
		}
		return it.Text, true
	}
	return "", false
}

func classifyUserKind(items []contentItem) (contentKind, bool) {
	for _, it := range items {
		switch it.Type {
		case "tool_result":
			return kindToolResult, true
		case "text":
			if strings.HasPrefix(it.Text, "[Request interrupted") {
				continue
			}
			return kindUserText, true
		}
	}
	return kindNone, false
}

func stateDetail(entryType string, kind contentKind) Detail {
	switch {
	case entryType == "assistant" && kind == kindToolUse:
		return DetailExecutingTool
	case entryType == "assistant" && kind == kindText:
		return DetailThinking
	case entryType == "assistant" && kind == kindThinking:
		return DetailThinking
	case entryType == "user" && kind == kindToolResult:
		return DetailThinking
	case entryType == "user" && kind == kindUserText:
		return DetailThinking
	default:
		return DetailInactive
	}
}

// truncate cuts s to max characters, appending the literal three-period
// "..." suffix when cutting, rather than a unicode ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
