package jira

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ADFText is a rich-text field that Jira Server returns as a plain string
// and Jira Cloud returns as an Atlassian Document Format (ADF) tree. Either
// form decodes to the plain-text rendition.
type ADFText string

func (t *ADFText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ADFText(s)
		return nil
	}

	var node any
	if err := json.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("invalid rich-text field: %w", err)
	}
	*t = ADFText(adfToText(node))
	return nil
}

// adfToText flattens an ADF node tree into plain text. Inline nodes render
// their natural textual form (mentions as @name, statuses in brackets,
// dates as YYYY-MM-DD, code blocks fenced); unknown nodes recurse into
// their content.
func adfToText(node any) string {
	switch v := node.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		var parts []string
		for _, item := range v {
			if text := adfToText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		return adfNodeToText(v)
	default:
		return ""
	}
}

func adfNodeToText(node map[string]any) string {
	nodeType, _ := node["type"].(string)
	attrs, _ := node["attrs"].(map[string]any)

	switch nodeType {
	case "text":
		text, _ := node["text"].(string)
		return text
	case "hardBreak":
		return "\n"
	case "mention":
		if text := stringAttr(attrs, "text"); text != "" {
			return text
		}
		if id := stringAttr(attrs, "id"); id != "" {
			return "@" + id
		}
		return "@unknown"
	case "emoji":
		if text := stringAttr(attrs, "text"); text != "" {
			return text
		}
		return stringAttr(attrs, "shortName")
	case "date":
		return adfDateToText(attrs)
	case "status":
		return "[" + stringAttr(attrs, "text") + "]"
	case "inlineCard":
		if url := stringAttr(attrs, "url"); url != "" {
			return url
		}
		if data, ok := attrs["data"].(map[string]any); ok {
			if url := stringAttr(data, "url"); url != "" {
				return url
			}
			return stringAttr(data, "name")
		}
		return ""
	case "codeBlock":
		return "```\n" + adfToText(node["content"]) + "\n```"
	}

	return adfToText(node["content"])
}

// adfDateToText renders a date node's epoch-millisecond timestamp as a
// calendar date, falling back to the raw value when it does not parse.
func adfDateToText(attrs map[string]any) string {
	raw, ok := attrs["timestamp"]
	if !ok {
		return ""
	}

	var millis int64
	switch ts := raw.(type) {
	case string:
		parsed, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return ts
		}
		millis = parsed
	case float64:
		millis = int64(ts)
	default:
		return ""
	}

	return time.UnixMilli(millis).UTC().Format("2006-01-02")
}

func stringAttr(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	s, _ := attrs[key].(string)
	return s
}
