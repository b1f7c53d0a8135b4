package main

import (
	"cephlog-mcp/internal/logtools"
	"cephlog-mcp/internal/transport"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerAllTools registers all tools with the MCP server
func registerAllTools(server *mcp.Server, client *transport.Client) {
	// Register free-text search tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_logs",
		Description: logtools.SearchLogsDescription,
	}, logtools.NewSearchLogsHandler(client))

	// Register structured query tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_logs",
		Description: logtools.QueryLogsDescription,
	}, logtools.NewQueryLogsHandler(client))

	// Register error search tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_errors",
		Description: logtools.SearchErrorsDescription,
	}, logtools.NewSearchErrorsHandler(client))

	// Register warning search tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_warnings",
		Description: logtools.SearchWarningsDescription,
	}, logtools.NewSearchWarningsHandler(client))

	// Register critical search tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_critical",
		Description: logtools.SearchCriticalDescription,
	}, logtools.NewSearchCriticalHandler(client))

	// Register server discovery tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "discover_servers",
		Description: logtools.DiscoverServersDescription,
	}, logtools.NewDiscoverServersHandler(client))

	// Register channel analysis tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_log_channels",
		Description: logtools.AnalyzeLogChannelsDescription,
	}, logtools.NewAnalyzeLogChannelsHandler(client))

	// Register kernel debugging tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "debug_kernel_logs",
		Description: logtools.DebugKernelLogsDescription,
	}, logtools.NewDebugKernelLogsHandler(client))

	// Register condition check tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_log_conditions",
		Description: logtools.CheckLogConditionsDescription,
	}, logtools.NewCheckLogConditionsHandler(client))

	// Register scenario catalog tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_debug_scenarios",
		Description: logtools.ListDebugScenariosDescription,
	}, logtools.NewListDebugScenariosHandler())

	// Register scenario runner tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_debug_scenario",
		Description: logtools.RunDebugScenarioDescription,
	}, logtools.NewRunDebugScenarioHandler(client))
}
