package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

// Parser turns resume text into a Profile through the LLM.
type Parser struct {
	provider llm.Provider
	cfg      Config
}

func NewParser(provider llm.Provider, cfg Config) *Parser {
	return &Parser{provider: provider, cfg: cfg}
}

// Parse makes one delegate call on at most MaxResumeChars of text.
func (p *Parser) Parse(ctx context.Context, text string) (*Profile, error) {
	ctx = llm.WithPurpose(ctx, "resume-parse")

	resp, err := p.provider.Generate(ctx, llm.Prompt(parseSystemPrompt, buildParseMessage(truncate(text, p.cfg.MaxResumeChars)),
		ProfileSchema, p.cfg.ParseMaxTokens, p.cfg.ParseTemperature))
	if err != nil {
		return nil, apperr.Delegate("parse resume", err)
	}

	var out Profile
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, apperr.Delegate("parse resume", fmt.Errorf("parse profile: %w", err))
	}
	out.Skills = dedupSkills(out.Skills)
	return &out, nil
}

// dedupSkills drops empty and case-insensitively repeated skill names.
func dedupSkills(in []Skill) []Skill {
	out := make([]Skill, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s.Name = strings.TrimSpace(s.Name)
		s.Category = strings.TrimSpace(s.Category)
		key := strings.ToLower(s.Name)
		if s.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
