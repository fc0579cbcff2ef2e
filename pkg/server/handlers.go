package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mattjh/maccy-mcp/pkg/clipboard"
	"github.com/mattjh/maccy-mcp/pkg/export"
	"github.com/mattjh/maccy-mcp/pkg/history"
	"github.com/mattjh/maccy-mcp/pkg/normalize"
)

const exportDefaultLimit = 1000

func (s *Server) handleGetHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := s.clampLimit(req.GetInt("limit", 0))
	excludeImages := req.GetBool("exclude_images", false)
	includeImages := req.GetBool("include_images", false)
	if excludeImages && includeImages {
		return nil, &ValidationError{Reason: "exclude_images and include_images are mutually exclusive"}
	}

	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	opts := history.ListOptions{Limit: limit}
	if excludeImages {
		opts.Transform = history.ExcludeImages
	}

	entries, err := st.List(ctx, opts)
	if err != nil {
		return nil, &IOError{Op: "list history", Err: err}
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No history entries found."), nil
	}

	s.log.Debugf("[%s] returning %d history entries", RequestID(ctx), len(entries))
	return &mcp.CallToolResult{
		Content: formatEntries(entries, s.formatOptions(includeImages)),
	}, nil
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	opts := history.ListOptions{
		Query:       query,
		Application: req.GetString("application", ""),
		Limit:       s.clampLimit(req.GetInt("limit", 0)),
	}
	if from := req.GetString("from", ""); from != "" {
		t, err := parseDateBound(from, false)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		opts.From = &t
	}
	if to := req.GetString("to", ""); to != "" {
		t, err := parseDateBound(to, true)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		opts.To = &t
	}
	if req.GetBool("exclude_images", false) {
		opts.Transform = history.ExcludeImages
	}

	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entries, err := st.List(ctx, opts)
	if err != nil {
		return nil, &IOError{Op: "search history", Err: err}
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No history entries match %q.", query)), nil
	}

	blocks := []mcp.Content{mcp.NewTextContent(
		fmt.Sprintf("%d entries match %q:", len(entries), query))}
	blocks = append(blocks, formatEntries(entries, s.formatOptions(false))...)
	return &mcp.CallToolResult{Content: blocks}, nil
}

func (s *Server) handleGetItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entry, err := st.Get(ctx, int64(id))
	if err != nil {
		return nil, err
	}

	includeImage := req.GetBool("include_image", false)
	return &mcp.CallToolResult{
		Content: formatItemDetail(*entry, s.formatOptions(includeImage)),
	}, nil
}

func (s *Server) handleCopy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entry, err := st.Get(ctx, int64(id))
	if err != nil {
		return nil, err
	}

	content := normalize.Normalize(entry.Fragments, s.strictness)

	if text := normalize.PrimaryText(content, entry.Title); text != "" {
		if err := clipboard.WriteText(text); err != nil {
			return nil, &IOError{Op: "copy text to clipboard", Err: err}
		}
		s.log.Infof("[%s] copied item %d as text (%d chars)", RequestID(ctx), entry.ID, len(text))
		return mcp.NewToolResultText(fmt.Sprintf("Copied item #%d to the clipboard as text.", entry.ID)), nil
	}

	if data, mimeType, ok := normalize.PrimaryImage(content); ok {
		if err := clipboard.WriteImage(ctx, data, mimeType); err != nil {
			return nil, &IOError{Op: "copy image to clipboard", Err: err}
		}
		s.log.Infof("[%s] copied item %d as %s (%d bytes)", RequestID(ctx), entry.ID, mimeType, len(data))
		return mcp.NewToolResultText(fmt.Sprintf("Copied item #%d to the clipboard as %s.", entry.ID, mimeType)), nil
	}

	return nil, &ValidationError{Reason: fmt.Sprintf("item %d has no copyable content", entry.ID)}
}

func (s *Server) handlePin(pinned bool) handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}

		st, err := s.openStore()
		if err != nil {
			return nil, err
		}
		defer st.Close()

		if err := st.SetPinned(ctx, int64(id), pinned); err != nil {
			return nil, err
		}

		verb := "Pinned"
		if !pinned {
			verb = "Unpinned"
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s item #%d.", verb, id)), nil
	}
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if !req.GetBool("confirm", false) {
		return nil, &ValidationError{Reason: "deletion is permanent; call again with confirm=true"}
	}

	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.Delete(ctx, int64(id)); err != nil {
		return nil, err
	}
	s.log.Infof("[%s] deleted item %d", RequestID(ctx), id)
	return mcp.NewToolResultText(fmt.Sprintf("Deleted item #%d.", id)), nil
}

func (s *Server) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formatName, err := req.RequireString("format")
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	path, err := req.RequireString("path")
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	entries, err := st.List(ctx, history.ListOptions{Limit: req.GetInt("limit", exportDefaultLimit)})
	if err != nil {
		return nil, &IOError{Op: "list history for export", Err: err}
	}

	records := export.BuildRecords(entries, s.strictness)
	if err := export.WriteFile(path, format, records); err != nil {
		return nil, &IOError{Op: "write export", Err: err}
	}

	s.log.Infof("[%s] exported %d entries to %s (%s)", RequestID(ctx), len(records), path, format)
	return mcp.NewToolResultText(fmt.Sprintf("Exported %d entries to %s as %s.", len(records), path, format)), nil
}

func (s *Server) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return nil, &IOError{Op: "query history stats", Err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "History entries: %d (%d pinned)\n", stats.TotalEntries, stats.PinnedEntries)
	fmt.Fprintf(&b, "Distinct applications: %d\n", stats.Applications)
	if stats.TotalEntries > 0 {
		fmt.Fprintf(&b, "Oldest entry: %s\n", stats.OldestCopiedAt.Format(timestampLayout))
		fmt.Fprintf(&b, "Newest entry: %s\n", stats.NewestCopiedAt.Format(timestampLayout))
	}
	if len(stats.TopApplications) > 0 {
		b.WriteString("Top applications by copies:\n")
		for _, ac := range stats.TopApplications {
			fmt.Fprintf(&b, "  %s: %d\n", ac.Application, ac.Copies)
		}
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
