package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// PlugPath is a parsed attribute path: root[index].child.
type PlugPath struct {
	Root  string
	Index int // -1 when the path has no element index
	Child string
}

// ParsePlugPath splits an attribute path such as
// "springAngleBias[1].springAngleBias_Position".
func ParsePlugPath(attr string) (PlugPath, error) {
	if attr == "" {
		return PlugPath{}, fmt.Errorf("empty attribute path: %w", ErrInvalidPlug)
	}

	p := PlugPath{Index: -1}
	rest := attr

	if i := strings.IndexAny(rest, "[."); i >= 0 {
		p.Root = rest[:i]
		rest = rest[i:]
	} else {
		p.Root = rest
		rest = ""
	}
	if p.Root == "" {
		return PlugPath{}, fmt.Errorf("%q: missing attribute name: %w", attr, ErrInvalidPlug)
	}

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return PlugPath{}, fmt.Errorf("%q: unterminated index: %w", attr, ErrInvalidPlug)
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil || idx < 0 {
			return PlugPath{}, fmt.Errorf("%q: bad index: %w", attr, ErrInvalidPlug)
		}
		p.Index = idx
		rest = rest[end+1:]
	}

	if strings.HasPrefix(rest, ".") {
		p.Child = rest[1:]
		if p.Child == "" || strings.ContainsAny(p.Child, "[].") {
			return PlugPath{}, fmt.Errorf("%q: bad child: %w", attr, ErrInvalidPlug)
		}
		rest = ""
	}

	if rest != "" {
		return PlugPath{}, fmt.Errorf("%q: trailing %q: %w", attr, rest, ErrInvalidPlug)
	}
	return p, nil
}

// ElementPlug builds "root[index].child".
func ElementPlug(root string, index int, child string) string {
	return fmt.Sprintf("%s[%d].%s", root, index, child)
}

// validatePath checks a parsed path against a declared attribute.
func validatePath(def AttrDef, p PlugPath, attr string) error {
	if p.Index >= 0 && !def.Multi {
		return fmt.Errorf("%q: %q is not a multi attribute: %w", attr, def.Name, ErrInvalidPlug)
	}
	if p.Child != "" {
		if _, ok := def.Child(p.Child); !ok {
			return fmt.Errorf("%q: no child %q: %w", attr, p.Child, ErrAttrNotFound)
		}
	}
	return nil
}

// ValidateDeclared checks attr against the declared definitions of a node.
// Undeclared roots are host built-ins and pass.
func ValidateDeclared(defs map[string]AttrDef, attr string) (AttrDef, bool, error) {
	p, err := ParsePlugPath(attr)
	if err != nil {
		return AttrDef{}, false, err
	}
	def, ok := defs[p.Root]
	if !ok {
		return AttrDef{}, false, nil
	}
	if err := validatePath(def, p, attr); err != nil {
		return AttrDef{}, true, err
	}
	if p.Child != "" {
		child, _ := def.Child(p.Child)
		return child, true, nil
	}
	return def, true, nil
}
