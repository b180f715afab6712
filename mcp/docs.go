package mcp

import (
	"context"
	"encoding/json"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/spetersoncode/a2gate/tool"
)

// ErrComponentNotFound is the error text reported for an unknown component.
const ErrComponentNotFound = "component not found"

// DefaultTopK caps search results when the caller gives no limit.
const DefaultTopK = 5

// DocStore serves markdown component docs from the top level of a file
// system. A doc's name is its file name without the .md extension.
// The directory is re-read on every call so edits show up without a restart.
type DocStore struct {
	fsys fs.FS
}

// NewDocStore returns a DocStore over fsys.
func NewDocStore(fsys fs.FS) *DocStore {
	return &DocStore{fsys: fsys}
}

// load reads every non-empty *.md file. Unreadable files are skipped.
func (s *DocStore) load() map[string]string {
	docs := make(map[string]string)
	matches, err := fs.Glob(s.fsys, "*.md")
	if err != nil {
		return docs
	}
	for _, m := range matches {
		data, err := fs.ReadFile(s.fsys, m)
		if err != nil {
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		docs[strings.TrimSuffix(path.Base(m), ".md")] = content
	}
	return docs
}

func sortedNames(docs map[string]string) []string {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns the component names in sorted order.
func (s *DocStore) List() []string {
	return sortedNames(s.load())
}

// ComponentDoc is the get_component response.
type ComponentDoc struct {
	Name    string  `json:"name"`
	Content *string `json:"content"`
	Error   string  `json:"error,omitempty"`
}

// Get looks up a component by exact name, then case-insensitively.
func (s *DocStore) Get(name string) ComponentDoc {
	docs := s.load()
	if content, ok := docs[name]; ok {
		return ComponentDoc{Name: name, Content: &content}
	}
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, key := range sortedNames(docs) {
		if strings.ToLower(key) == lowered {
			content := docs[key]
			return ComponentDoc{Name: key, Content: &content}
		}
	}
	return ComponentDoc{Name: name, Error: ErrComponentNotFound}
}

// SearchHit is one search_components match.
type SearchHit struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
}

// SearchResult is the search_components response.
type SearchResult struct {
	Keyword string      `json:"keyword"`
	Results []SearchHit `json:"results"`
}

// Search matches keyword case-insensitively against each doc's name and
// content, in name order, returning at most topK hits. A blank keyword
// matches nothing.
func (s *DocStore) Search(keyword string, topK int) SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}
	result := SearchResult{Keyword: keyword, Results: []SearchHit{}}
	query := strings.ToLower(strings.TrimSpace(keyword))
	if query == "" {
		return result
	}

	docs := s.load()
	for _, name := range sortedNames(docs) {
		haystack := strings.ToLower(name + " " + docs[name])
		if strings.Contains(haystack, query) {
			result.Results = append(result.Results, SearchHit{Name: name, Exists: true})
		}
		if len(result.Results) >= topK {
			break
		}
	}
	return result
}

// GetComponentArgs are the arguments of get_component.
type GetComponentArgs struct {
	Name string `json:"name" jsonschema:"required,description=Component name such as Weather"`
}

// SearchComponentsArgs are the arguments of search_components.
type SearchComponentsArgs struct {
	Keyword string `json:"keyword" jsonschema:"required,description=Keyword to search for"`
	TopK    int    `json:"top_k,omitempty" jsonschema:"description=Maximum number of results (default 5),minimum=1"`
}

// DocTools returns the server side tools that expose store:
// list_components, get_component and search_components. Each returns its
// response as JSON text.
func DocTools(store *DocStore) []tool.Registration {
	return []tool.Registration{
		tool.Func("list_components", "List the names of all documented UI components",
			func(ctx context.Context, _ struct{}) (string, error) {
				return marshalText(map[string][]string{"components": store.List()})
			}),
		tool.Func("get_component", "Get the full documentation of a UI component",
			func(ctx context.Context, args GetComponentArgs) (string, error) {
				return marshalText(store.Get(args.Name))
			}),
		tool.Func("search_components", "Search component docs for a keyword",
			func(ctx context.Context, args SearchComponentsArgs) (string, error) {
				return marshalText(store.Search(args.Keyword, args.TopK))
			}),
	}
}

func marshalText(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
