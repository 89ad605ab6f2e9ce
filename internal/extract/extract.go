// Package extract turns raw TypeScript/JavaScript source into per-file
// facts: imports, exports, declared units, call identifiers, JSX child
// components, and side-effect tags.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"ripple/internal/facts"
)

type Parser struct {
	languages map[string]*sitter.Language
}

func NewParser() *Parser {
	return &Parser{
		languages: map[string]*sitter.Language{
			"typescript": sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			"tsx":        sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
			"javascript": sitter.NewLanguage(tree_sitter_javascript.Language()),
		},
	}
}

// ParseFile parses one source file and extracts its facts. The path is
// stored on the fact verbatim; callers are responsible for keeping all
// paths in the same root-relative space.
func (p *Parser) ParseFile(path string, content []byte) (*facts.FileFact, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, errors.New("unsupported language")
	}

	grammar := p.languages[lang]
	if grammar == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	e := &extractor{
		source: content,
		fact: &facts.FileFact{
			Path:        path,
			SideEffects: detectSideEffects(content),
		},
	}
	e.walk(tree.RootNode())

	return e.fact, nil
}

// IsSupportedPath reports whether the parser has a grammar for the file.
func (p *Parser) IsSupportedPath(path string) bool {
	return p.detectLanguage(path) != ""
}

func (p *Parser) detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".js", ".jsx":
		return "javascript"
	default:
		return ""
	}
}
