package main

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed prompts/workflows/*.md
var workflowFS embed.FS

//go:embed prompts/references/*.md
var referenceFS embed.FS

// promptDef defines a prompt's metadata and which reference files it needs.
type promptDef struct {
	prompt   *mcp.Prompt
	workflow string   // filename under prompts/workflows/
	refs     []string // filenames under prompts/references/
	argNames []string // argument names used as $UPPER_SNAKE placeholders in workflow text
}

var promptDefs = []promptDef{
	{
		prompt: &mcp.Prompt{
			Name:        "cluster-health-triage",
			Title:       "Cluster Health Triage",
			Description: "Triage overall cluster health from its logs: which servers are logging, which daemons dominate the volume, what critical events fired recently, and whether any known failure condition is currently active.",
			Arguments: []*mcp.PromptArgument{
				{Name: "server_name", Description: "Hostname of a server to focus on", Required: false},
				{Name: "hours_back", Description: "How many hours of logs to examine (default 24)", Required: false},
			},
		},
		workflow: "cluster-health-triage.md",
		refs:     []string{"triage-playbook.md"},
		argNames: []string{"server_name", "hours_back"},
	},
	{
		prompt: &mcp.Prompt{
			Name:        "osd-incident-analysis",
			Title:       "OSD Incident Analysis",
			Description: "Investigate an OSD incident: daemon crashes, slow requests, heartbeat failures, flapping OSDs, or suspected disk problems underneath an OSD. Correlates daemon logs with kernel logs on the affected server.",
			Arguments: []*mcp.PromptArgument{
				{Name: "osd_unit", Description: "Affected OSD unit, e.g. ceph-osd@12", Required: false},
				{Name: "start_time", Description: "Incident window start (RFC 3339)", Required: false},
				{Name: "end_time", Description: "Incident window end (RFC 3339)", Required: false},
			},
		},
		workflow: "osd-incident-analysis.md",
		refs:     []string{"triage-playbook.md", "query-syntax.md"},
		argNames: []string{"osd_unit", "start_time", "end_time"},
	},
}

// registerAllPrompts registers all investigation prompts with the MCP server.
func registerAllPrompts(server *mcp.Server) {
	for _, def := range promptDefs {
		server.AddPrompt(def.prompt, makePromptHandler(def))
	}
}

// makePromptHandler returns a PromptHandler closure for the given prompt
// definition. It reads the embedded workflow and reference files and
// substitutes argument placeholders.
func makePromptHandler(def promptDef) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments

		workflowContent, err := workflowFS.ReadFile("prompts/workflows/" + def.workflow)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow %s: %w", def.workflow, err)
		}
		workflow := substituteArgs(string(workflowContent), args, def.argNames)

		var messages []*mcp.PromptMessage

		// Reference material first, as assistant context
		var refParts []string
		for _, refFile := range def.refs {
			content, err := referenceFS.ReadFile("prompts/references/" + refFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read reference %s: %w", refFile, err)
			}
			refParts = append(refParts, string(content))
		}
		if len(refParts) > 0 {
			refContent := strings.Join(refParts, "\n\n---\n\n")
			messages = append(messages, &mcp.PromptMessage{
				Role: mcp.Role("assistant"),
				Content: &mcp.TextContent{
					Text: "# Reference Material\n\nThe following reference material is pre-loaded for this investigation. Use it as needed during the workflow.\n\n" + refContent,
				},
			})
		}

		// Workflow as user message
		messages = append(messages, &mcp.PromptMessage{
			Role:    mcp.Role("user"),
			Content: &mcp.TextContent{Text: workflow},
		})

		return &mcp.GetPromptResult{
			Description: def.prompt.Description,
			Messages:    messages,
		}, nil
	}
}

// substituteArgs replaces $UPPER_SNAKE placeholders in text with argument values.
// For example, "osd_unit" → replaces "$OSD_UNIT" with the provided value.
// If an argument is not provided, the placeholder is left as-is (the agent fills it in).
func substituteArgs(text string, args map[string]string, argNames []string) string {
	for _, name := range argNames {
		val, ok := args[name]
		if !ok || val == "" {
			continue
		}
		placeholder := "$" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
		text = strings.ReplaceAll(text, placeholder, val)
	}
	return text
}
