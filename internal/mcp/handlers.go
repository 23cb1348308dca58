package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"ftpmirror/internal/config"
	"ftpmirror/internal/engine"
	"ftpmirror/internal/oplog"
)

// handleGetStatus handles the get_status tool
func (s *Server) handleGetStatus(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	output := StatusOutput{
		Status: s.engine.Status().String(),
		Active: s.engine.Active(),
	}

	if cfg := s.engine.Config(); cfg != nil {
		output.Configured = true
		output.Host = cfg.Server.Host
		output.LocalPath = cfg.Server.LocalPath
		output.Folders = len(cfg.Folders)
	}

	text := fmt.Sprintf("Status: %s", output.Status)
	if output.Configured {
		text = fmt.Sprintf("Status: %s (%d folder(s) on %s, active=%v)",
			output.Status, output.Folders, output.Host, output.Active)
	}
	return textResult(text), output, nil
}

// handleSubmitConfig handles the submit_config tool
func (s *Server) handleSubmitConfig(ctx context.Context, req *mcp.CallToolRequest, input SubmitConfigInput) (*mcp.CallToolResult, SubmitConfigOutput, error) {
	output := SubmitConfigOutput{}

	cfg := config.Config{
		Server: config.Server{
			Host:      input.Server.Host,
			Port:      input.Server.Port,
			Username:  input.Server.Username,
			Password:  input.Server.Password,
			LocalPath: input.Server.LocalPath,
		},
	}
	for _, f := range input.Folders {
		cfg.Folders = append(cfg.Folders, config.Folder{
			ID:              f.ID,
			Name:            f.Name,
			RemotePath:      f.RemotePath,
			IntervalMinutes: f.IntervalMinutes,
		})
	}

	if err := s.engine.SubmitConfig(cfg); err != nil {
		output.Error = err.Error()
		return textResult(fmt.Sprintf("Configuration rejected: %v", err)), output, nil
	}

	output.Applied = true
	output.Folders = len(cfg.Folders)
	return textResult(fmt.Sprintf("Configuration applied: monitoring %d folder(s) on %s",
		output.Folders, cfg.Server.Host)), output, nil
}

// handleToggleMonitoring handles the toggle_monitoring tool
func (s *Server) handleToggleMonitoring(ctx context.Context, req *mcp.CallToolRequest, input ToggleInput) (*mcp.CallToolResult, ToggleOutput, error) {
	s.engine.SetActive(input.Active)
	output := ToggleOutput{Active: s.engine.Active()}

	text := "Monitoring paused"
	if output.Active {
		text = "Monitoring resumed"
	}
	return textResult(text), output, nil
}

// handleTailLog handles the tail_log tool
func (s *Server) handleTailLog(ctx context.Context, req *mcp.CallToolRequest, input TailLogInput) (*mcp.CallToolResult, TailLogOutput, error) {
	output := TailLogOutput{Entries: []LogEntry{}}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	var filter *oplog.Severity
	if input.Severity != "" {
		sev, err := oplog.ParseSeverity(input.Severity)
		if err != nil {
			return nil, output, err
		}
		filter = &sev
	}

	for _, e := range s.engine.LogSnapshot() {
		if filter != nil && e.Severity != *filter {
			continue
		}
		if len(output.Entries) >= limit {
			break
		}
		output.Entries = append(output.Entries, LogEntry{
			ID:       e.ID,
			Time:     e.Time.Format(time.RFC3339),
			Severity: e.Severity.String(),
			Message:  e.Message,
		})
	}
	output.Total = len(output.Entries)

	return textResult(fmt.Sprintf("Returning %d log entries", output.Total)), output, nil
}

// handleFolderOutcomes handles the folder_outcomes tool
func (s *Server) handleFolderOutcomes(ctx context.Context, req *mcp.CallToolRequest, input FolderOutcomesInput) (*mcp.CallToolResult, FolderOutcomesOutput, error) {
	output := FolderOutcomesOutput{Folders: []FolderInfo{}}

	for _, state := range s.engine.Folders() {
		if input.Folder != "" && state.ID != input.Folder && state.Name != input.Folder {
			continue
		}
		output.Folders = append(output.Folders, folderInfo(state))
	}

	if input.Folder != "" && len(output.Folders) == 0 {
		return nil, output, fmt.Errorf("unknown folder %q", input.Folder)
	}

	return textResult(fmt.Sprintf("Returning %d folder(s)", len(output.Folders))), output, nil
}

// handleRunCycle handles the run_cycle tool
func (s *Server) handleRunCycle(ctx context.Context, req *mcp.CallToolRequest, input RunCycleInput) (*mcp.CallToolResult, RunCycleOutput, error) {
	output := RunCycleOutput{Folder: input.Folder}

	if input.Folder == "" {
		return nil, output, fmt.Errorf("folder is required")
	}

	result, err := s.engine.RunFolderNow(input.Folder)
	if err != nil {
		return nil, output, err
	}

	output.Folder = result.FolderName
	output.Downloaded = result.Downloaded()
	output.Failed = result.Failed()
	output.Outcomes = outcomeInfos(result.Outcomes)
	if result.Err != nil {
		output.Error = result.Err.Error()
		return textResult(fmt.Sprintf("Cycle for '%s' failed: %v", result.FolderName, result.Err)), output, nil
	}

	return textResult(fmt.Sprintf("Cycle for '%s' complete: %d downloaded, %d failed",
		result.FolderName, output.Downloaded, output.Failed)), output, nil
}

func folderInfo(state engine.FolderState) FolderInfo {
	info := FolderInfo{
		ID:              state.ID,
		Name:            state.Name,
		RemotePath:      state.RemotePath,
		IntervalMinutes: state.IntervalMinutes,
		LastError:       state.LastError,
		Outcomes:        outcomeInfos(state.Outcomes),
	}
	if !state.LastStarted.IsZero() {
		info.LastStarted = state.LastStarted.Format(time.RFC3339)
	}
	if !state.LastFinished.IsZero() {
		info.LastFinished = state.LastFinished.Format(time.RFC3339)
	}
	return info
}

func outcomeInfos(outcomes []engine.Outcome) []OutcomeInfo {
	out := make([]OutcomeInfo, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, OutcomeInfo{
			Name:     o.Name,
			Status:   o.Status.String(),
			Size:     o.Size,
			Checksum: o.Checksum,
			Detail:   o.Detail,
		})
	}
	return out
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
