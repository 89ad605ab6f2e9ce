package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"ripple/internal/facts"
)

// extractor walks one parsed syntax tree and fills in a FileFact. The
// TypeScript, TSX and JavaScript grammars share node kinds for
// everything extracted here, so a single walk covers all three.
type extractor struct {
	source []byte
	fact   *facts.FileFact
}

func (e *extractor) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "import_statement":
		e.extractImport(node)
	case "export_statement":
		e.extractExport(node)
	case "function_declaration", "generator_function_declaration":
		e.extractFunction(node)
	case "lexical_declaration", "variable_declaration":
		e.extractDeclarators(node)
	case "class_declaration":
		e.extractClass(node)
	case "interface_declaration", "type_alias_declaration", "enum_declaration":
		e.extractType(node)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i))
	}
}

func (e *extractor) extractImport(node *sitter.Node) {
	target := e.stringLiteral(node)
	if target == "" {
		return
	}
	e.fact.Imports = append(e.fact.Imports, facts.Import{
		Target:     target,
		IsExternal: !strings.HasPrefix(target, "."),
	})
}

func (e *extractor) extractExport(node *sitter.Node) {
	// Re-exports ("export { x } from './y'") contribute an edge too.
	if target := e.stringLiteral(node); target != "" {
		e.fact.Imports = append(e.fact.Imports, facts.Import{
			Target:     target,
			IsExternal: !strings.HasPrefix(target, "."),
		})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "default":
			e.fact.Exports = append(e.fact.Exports, "default")
		case "export_clause":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec.Kind() != "export_specifier" {
					continue
				}
				if name := e.text(spec.ChildByFieldName("name")); name != "" {
					e.fact.Exports = append(e.fact.Exports, name)
				}
			}
		case "function_declaration", "generator_function_declaration",
			"class_declaration", "interface_declaration",
			"type_alias_declaration", "enum_declaration":
			if name := e.text(child.ChildByFieldName("name")); name != "" {
				e.fact.Exports = append(e.fact.Exports, name)
			}
		case "lexical_declaration", "variable_declaration":
			for j := uint(0); j < child.ChildCount(); j++ {
				decl := child.Child(j)
				if decl.Kind() != "variable_declarator" {
					continue
				}
				name := decl.ChildByFieldName("name")
				if name != nil && name.Kind() == "identifier" {
					e.fact.Exports = append(e.fact.Exports, e.text(name))
				}
			}
		}
	}
}

func (e *extractor) extractFunction(node *sitter.Node) {
	name := e.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	e.addUnit(node, name, facts.KindFunction)
}

func (e *extractor) extractDeclarators(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		decl := node.Child(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}

		value := decl.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Kind() {
		case "arrow_function", "function_expression", "function":
		default:
			continue
		}

		name := decl.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			continue
		}
		e.addUnit(decl, e.text(name), facts.KindFunction)
	}
}

func (e *extractor) extractClass(node *sitter.Node) {
	name := e.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	e.addUnit(node, name, facts.KindClass)
}

func (e *extractor) extractType(node *sitter.Node) {
	name := e.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	e.addUnit(node, name, facts.KindType)
}

func (e *extractor) addUnit(node *sitter.Node, name string, kind facts.UnitKind) {
	unit := facts.Unit{
		Kind:      kind,
		Name:      name,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		Exported:  e.isExported(node),
	}

	seen := make(map[string]bool)
	rendersJSX := e.collectBody(node, &unit, seen)

	// An uppercase-named function that renders JSX is a component.
	if kind == facts.KindFunction && rendersJSX && isComponentName(name) {
		unit.Kind = facts.KindComponent
	}

	e.fact.Units = append(e.fact.Units, unit)
}

// collectBody gathers call identifiers and JSX child components from a
// unit's subtree. Returns whether any JSX was seen.
func (e *extractor) collectBody(node *sitter.Node, unit *facts.Unit, seen map[string]bool) bool {
	if node == nil {
		return false
	}

	rendersJSX := false
	switch node.Kind() {
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil {
			switch fn.Kind() {
			case "identifier":
				unit.Calls = append(unit.Calls, e.text(fn))
			case "member_expression":
				if prop := e.text(fn.ChildByFieldName("property")); prop != "" {
					unit.Calls = append(unit.Calls, prop)
				}
			}
		}
	case "jsx_opening_element", "jsx_self_closing_element":
		rendersJSX = true
		name := e.text(node.ChildByFieldName("name"))
		if isComponentName(name) && !seen[name] {
			seen[name] = true
			unit.ChildComponents = append(unit.ChildComponents, name)
		}
	case "jsx_attribute":
		if attr := node.Child(0); attr != nil && attr.Kind() == "property_identifier" && isHandlerName(e.text(attr)) {
			unit.HandlerCount++
			// onClick={submitOrder} references submitOrder like a call
			// site would.
			if ref := e.attributeIdentifier(node); ref != "" {
				unit.Calls = append(unit.Calls, ref)
			}
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if e.collectBody(node.Child(i), unit, seen) {
			rendersJSX = true
		}
	}
	return rendersJSX
}

func (e *extractor) isExported(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "export_statement":
			return true
		case "program", "statement_block":
			return false
		}
	}
	return false
}

// stringLiteral returns the unquoted text of the first string child.
func (e *extractor) stringLiteral(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "string" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			frag := child.Child(j)
			if frag.Kind() == "string_fragment" {
				return e.text(frag)
			}
		}
	}
	return ""
}

func (e *extractor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(e.source[node.StartByte():node.EndByte()])
}

// attributeIdentifier returns the bare identifier inside a jsx_attribute
// value expression, or "" when the value is anything more complex.
func (e *extractor) attributeIdentifier(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		expr := node.Child(i)
		if expr.Kind() != "jsx_expression" {
			continue
		}
		for j := uint(0); j < expr.ChildCount(); j++ {
			if inner := expr.Child(j); inner.Kind() == "identifier" {
				return e.text(inner)
			}
		}
	}
	return ""
}

func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func isHandlerName(name string) bool {
	return len(name) > 2 && name[0] == 'o' && name[1] == 'n' && name[2] >= 'A' && name[2] <= 'Z'
}
