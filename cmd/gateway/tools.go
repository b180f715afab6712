package main

import (
	"log/slog"

	"github.com/spetersoncode/a2gate/mcp"
	"github.com/spetersoncode/a2gate/skill"
	"github.com/spetersoncode/a2gate/tool"
)

// setupTools registers the built-in tools and the component documentation
// tools backed by the MCP server at cfg.ComponentDocURL. The caller closes
// the returned remote.
func setupTools(cfg *Config) (*tool.Registry, *mcp.RemoteRegistry) {
	remote := mcp.Dial(cfg.ComponentDocURL, mcp.WithCallTimeout(cfg.ComponentDocTimeout))
	registry := tool.NewRegistry().
		Add(tool.Builtins(tool.WithHTTPTimeout(cfg.ToolTimeout))...).
		Add(mcp.ComponentTools(remote)...)
	return registry, remote
}

// systemPrompt loads the configured skill. A missing skill falls back to
// the default prompt.
func systemPrompt(cfg *Config, logger *slog.Logger) string {
	s, err := skill.NewLoader(cfg.SkillsDir).Load(cfg.SkillName, "")
	if err != nil {
		logger.Warn("skill not loaded, using default prompt",
			"skill", cfg.SkillName,
			"dir", cfg.SkillsDir,
			"error", err,
		)
		return skill.SystemPrompt(nil)
	}
	logger.Info("skill loaded", "skill", s.Name, "base_dir", s.BaseDir)
	return skill.SystemPrompt(s)
}
