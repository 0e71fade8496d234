// Package prompt assembles the system directive sent once per session.
package prompt

import (
	"fmt"
	"strings"

	"github.com/litware/littui/internal/mcp"
)

// defaultDirective is used when no tools or extra context apply.
const defaultDirective = "You are a helpful AI assistant. Provide clear, concise, and accurate responses."

// continuitySection applies when the transcript already holds earlier turns.
const continuitySection = "This conversation is already in progress. Stay consistent with the earlier messages and do not introduce yourself again."

// Request carries everything the composer may draw on. All fields are
// optional except UserText.
type Request struct {
	UserText   string
	Transcript []string
	Tools      []mcp.ToolDescriptor
	Context    string
}

// Result is the composed directive plus metadata about how it was built.
type Result struct {
	Prompt string
	// Fallback is true when nothing beyond the default directive applied.
	Fallback bool
	// Modules names the optional sections that were included.
	Modules []string
}

// Compose deterministically builds the system directive. Same request, same
// result; no side effects.
func Compose(req Request) Result {
	var sections []string
	var modules []string

	sections = append(sections, defaultDirective)

	if len(req.Transcript) > 1 {
		sections = append(sections, continuitySection)
		modules = append(modules, "continuity")
	}

	if len(req.Tools) > 0 {
		sections = append(sections, toolSection(req.Tools))
		modules = append(modules, "tools")
	}

	if ctx := strings.TrimSpace(req.Context); ctx != "" {
		sections = append(sections, "Additional context:\n"+ctx)
		modules = append(modules, "context")
	}

	return Result{
		Prompt:   strings.Join(sections, "\n\n"),
		Fallback: len(modules) == 0,
		Modules:  modules,
	}
}

func toolSection(tools []mcp.ToolDescriptor) string {
	var sb strings.Builder
	sb.WriteString("You have access to the following tools:\n")
	for _, t := range tools {
		desc := t.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", t.Name, desc)
	}
	sb.WriteString("\nWhen a tool would help answer the user, say which tool you would use and with what arguments. Only reference tools from the list above.")
	return sb.String()
}
