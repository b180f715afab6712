// Package skill loads instruction bundles ("skills") from a directory tree
// and turns them into system prompts.
//
// A skill lives in <dir>/<name>/ and is described by the first of SKILL.md,
// skill.md or README.md found there. The file may open with YAML
// frontmatter:
//
//	---
//	name: a2ui
//	description: Render rich UI with A2UI
//	---
//	# Body ...
package skill

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileNames lists the skill description files in lookup order.
var FileNames = []string{"SKILL.md", "skill.md", "README.md"}

// ErrNotFound is returned when the skill directory or its file is missing.
var ErrNotFound = errors.New("skill: not found")

// Skill is a loaded skill.
type Skill struct {
	// Name comes from the frontmatter, falling back to the directory name.
	Name        string
	Description string
	// Content is the context injected into the model: the base directory
	// line, the body and any arguments.
	Content     string
	BaseDir     string
	Frontmatter map[string]any
}

// Loader loads skills from a file system.
type Loader struct {
	fsys fs.FS
	dir  string
}

// NewLoader returns a Loader for the skills directory dir on disk.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), dir: dir}
}

// NewFSLoader returns a Loader over fsys. dir is only used to report the
// base directory in skill context.
func NewFSLoader(fsys fs.FS, dir string) *Loader {
	return &Loader{fsys: fsys, dir: dir}
}

// Load reads the named skill. args, when non-empty, are appended to the
// skill context.
func (l *Loader) Load(name, args string) (*Skill, error) {
	if name == "" || !fs.ValidPath(name) {
		return nil, fmt.Errorf("skill: invalid name %q", name)
	}

	baseDir := filepath.Join(l.dir, filepath.FromSlash(name))
	info, err := fs.Stat(l.fsys, name)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: directory %s", ErrNotFound, baseDir)
	}

	var raw []byte
	for _, file := range FileNames {
		raw, err = fs.ReadFile(l.fsys, path.Join(name, file))
		if err == nil {
			break
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: no skill file in %s", ErrNotFound, baseDir)
	}

	frontmatter, body := parseFrontmatter(string(raw))

	s := &Skill{
		Name:        name,
		BaseDir:     baseDir,
		Frontmatter: frontmatter,
		Content:     buildContext(baseDir, body, args),
	}
	if v, ok := frontmatter["name"].(string); ok && v != "" {
		s.Name = v
	}
	if v, ok := frontmatter["description"].(string); ok {
		s.Description = v
	}
	return s, nil
}

// parseFrontmatter splits a leading "---" YAML block from the body.
// Without a well-formed block, or if the YAML does not parse, the whole
// input is the body.
func parseFrontmatter(raw string) (map[string]any, string) {
	empty := map[string]any{}

	rest, ok := strings.CutPrefix(raw, "---")
	if !ok {
		return empty, raw
	}
	rest = strings.TrimLeft(rest, " \t\r")
	rest, ok = strings.CutPrefix(rest, "\n")
	if !ok {
		return empty, raw
	}

	// Find the first closing fence: a line that is "---" plus trailing blanks.
	for offset := 0; ; {
		i := strings.Index(rest[offset:], "\n---")
		if i < 0 {
			return empty, raw
		}
		i += offset
		after := strings.TrimLeft(rest[i+4:], " \t\r")
		if body, ok := strings.CutPrefix(after, "\n"); ok {
			var fm map[string]any
			if err := yaml.Unmarshal([]byte(rest[:i]), &fm); err != nil {
				return empty, raw
			}
			if fm == nil {
				fm = empty
			}
			return fm, body
		}
		offset = i + 1
	}
}

func buildContext(baseDir, body, args string) string {
	var b strings.Builder
	b.WriteString("Base directory for this skill: ")
	b.WriteString(baseDir)
	b.WriteString("\n\n")
	b.WriteString(body)
	if args != "" {
		b.WriteString("\n\nARGUMENTS: ")
		b.WriteString(args)
	}
	return b.String()
}
