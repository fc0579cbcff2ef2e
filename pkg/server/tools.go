package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools declares every tool schema and binds it to its handler
// through the dispatch wrapper.
func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("get_clipboard_history",
		mcp.WithDescription("List recent clipboard history entries, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return.")),
		mcp.WithBoolean("exclude_images",
			mcp.Description("Drop image content; image-only entries without a title are omitted.")),
		mcp.WithBoolean("include_images",
			mcp.Description("Attach image payloads as base64 image blocks.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.dispatch("get_clipboard_history", s.handleGetHistory))

	s.mcp.AddTool(mcp.NewTool("search_clipboard",
		mcp.WithDescription("Search clipboard history by text, application and date range. "+
			"The query is matched as a case-sensitive substring against titles and text content; "+
			"regular expression syntax is accepted but not interpreted."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("Substring to match against entry titles and text content.")),
		mcp.WithString("application",
			mcp.Description("Bundle identifier to filter by; glob patterns like com.apple.* are supported.")),
		mcp.WithString("from",
			mcp.Description("Inclusive lower bound, YYYY-MM-DD or RFC 3339.")),
		mcp.WithString("to",
			mcp.Description("Inclusive upper bound, YYYY-MM-DD or RFC 3339.")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of matching entries to return.")),
		mcp.WithBoolean("exclude_images",
			mcp.Description("Drop image content from results.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.dispatch("search_clipboard", s.handleSearch))

	s.mcp.AddTool(mcp.NewTool("get_clipboard_item",
		mcp.WithDescription("Fetch one history entry by id with all of its content representations."),
		mcp.WithNumber("id", mcp.Required(),
			mcp.Description("History entry id.")),
		mcp.WithBoolean("include_image",
			mcp.Description("Attach image payloads as base64 image blocks.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.dispatch("get_clipboard_item", s.handleGetItem))

	s.mcp.AddTool(mcp.NewTool("copy_to_clipboard",
		mcp.WithDescription("Copy a history entry back onto the system clipboard. "+
			"Text is preferred when present, otherwise the best image representation is used."),
		mcp.WithNumber("id", mcp.Required(),
			mcp.Description("History entry id.")),
	), s.dispatch("copy_to_clipboard", s.handleCopy))

	s.mcp.AddTool(mcp.NewTool("pin_item",
		mcp.WithDescription("Pin a history entry so Maccy keeps it."),
		mcp.WithNumber("id", mcp.Required(),
			mcp.Description("History entry id.")),
	), s.dispatch("pin_item", s.handlePin(true)))

	s.mcp.AddTool(mcp.NewTool("unpin_item",
		mcp.WithDescription("Remove the pin from a history entry."),
		mcp.WithNumber("id", mcp.Required(),
			mcp.Description("History entry id.")),
	), s.dispatch("unpin_item", s.handlePin(false)))

	s.mcp.AddTool(mcp.NewTool("delete_item",
		mcp.WithDescription("Permanently delete a history entry and its content. Requires confirm=true."),
		mcp.WithNumber("id", mcp.Required(),
			mcp.Description("History entry id.")),
		mcp.WithBoolean("confirm",
			mcp.Description("Must be true; guards against accidental deletion.")),
		mcp.WithDestructiveHintAnnotation(true),
	), s.dispatch("delete_item", s.handleDelete))

	s.mcp.AddTool(mcp.NewTool("export_history",
		mcp.WithDescription("Export history entries to a file as JSON, CSV or plain text."),
		mcp.WithString("format", mcp.Required(),
			mcp.Description("Export format."),
			mcp.Enum("json", "csv", "txt")),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Destination file path; the parent directory must exist.")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to export.")),
	), s.dispatch("export_history", s.handleExport))

	s.mcp.AddTool(mcp.NewTool("get_history_stats",
		mcp.WithDescription("Summarize the history store: totals, pins and top applications."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.dispatch("get_history_stats", s.handleStats))
}
