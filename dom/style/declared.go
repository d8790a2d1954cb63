package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/cssengine/lexical"
	"github.com/npillmayer/cssengine/value"
)

// Declaration is the declared value of a property.
type Declaration struct {
	Value     value.Value
	Important bool
	Text      string // the value as written, for diagnostics
}

// DeclaredStyle holds the declared values of an element, i.e. the winners of
// the cascade for every property set on the element. nil is a legal (empty)
// declared style.
//
// A declared style may carry a snapshot of the declarations of the user-agent
// origin, which the keyword 'revert' rolls back to.
type DeclaredStyle struct {
	decls  map[string]Declaration
	revert *DeclaredStyle
}

// NewDeclaredStyle creates an empty declared style.
func NewDeclaredStyle() *DeclaredStyle {
	return &DeclaredStyle{decls: make(map[string]Declaration)}
}

// Get returns the declaration for a property.
func (ds *DeclaredStyle) Get(key string) (Declaration, bool) {
	if ds == nil {
		return Declaration{}, false
	}
	d, ok := ds.decls[key]
	return d, ok
}

// Set a declaration. Overwrites an existing declaration, if present.
func (ds *DeclaredStyle) Set(key string, d Declaration) {
	if ds.decls == nil {
		ds.decls = make(map[string]Declaration)
	}
	ds.decls[key] = d
}

// Add a declaration. Does not overwrite an existing declaration, i.e., does
// nothing if a value is already set.
func (ds *DeclaredStyle) Add(key string, d Declaration) {
	if _, exists := ds.Get(key); !exists {
		ds.Set(key, d)
	}
}

// Len returns the number of declarations.
func (ds *DeclaredStyle) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.decls)
}

// Properties returns the names of all declared properties, sorted.
func (ds *DeclaredStyle) Properties() []string {
	if ds == nil {
		return nil
	}
	keys := make([]string, 0, len(ds.decls))
	for k := range ds.decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Revert returns the user-agent snapshot, or nil.
func (ds *DeclaredStyle) Revert() *DeclaredStyle {
	if ds == nil {
		return nil
	}
	return ds.revert
}

// SetRevert sets the user-agent snapshot.
func (ds *DeclaredStyle) SetRevert(ua *DeclaredStyle) {
	ds.revert = ua
}

func (ds *DeclaredStyle) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, k := range ds.Properties() {
		d := ds.decls[k]
		imp := ""
		if d.Important {
			imp = " !important"
		}
		fmt.Fprintf(&sb, "  %s: %s%s\n", k, d.Value, imp)
	}
	sb.WriteString("}")
	return sb.String()
}

// Declare parses the text of a declaration and sets it, overwriting earlier
// declarations. Shorthands are expanded into their longhands; a shorthand
// whose value contains var(), attr() or env() sets pending proxies for all
// of its longhands.
func (ds *DeclaredStyle) Declare(reg *Registry, key, text string, important bool) error {
	key = NormalizeKey(key)
	chain, err := lexical.Parse(text)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	decl := func(v value.Value) Declaration {
		return Declaration{Value: v, Important: important, Text: text}
	}
	if IsCustomProperty(key) {
		if chain.IsCSSWide() {
			kw, _ := value.IsCSSWideKeyword(chain.Text)
			ds.Set(key, decl(kw))
			return nil
		}
		ds.Set(key, decl(value.Lexical{Chain: chain}))
		return nil
	}
	if chain == nil {
		return fmt.Errorf("%s: %w", key, value.ErrEmpty)
	}
	if reg.IsShorthand(key) {
		return ds.declareShorthand(reg, key, chain, decl)
	}
	v, err := value.FromLexical(chain)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	ds.Set(key, decl(v))
	return nil
}

func (ds *DeclaredStyle) declareShorthand(reg *Registry, key string, chain *lexical.Unit,
	decl func(value.Value) Declaration) error {
	//
	longhands := reg.Longhands(key)
	if chain.IsCSSWide() {
		kw, _ := value.IsCSSWideKeyword(chain.Text)
		for _, lh := range longhands {
			ds.Set(lh, decl(kw))
		}
		return nil
	}
	if chain.ContainsProxy() {
		for _, lh := range longhands {
			ds.Set(lh, decl(value.Proxy{ProxyType: value.PendingProxy, Chain: chain, Shorthand: key}))
		}
		return nil
	}
	expanded, err := ExpandShorthand(key, chain)
	if err != nil {
		return err
	}
	values := make([]value.Value, len(expanded))
	for i, lh := range expanded {
		v, err := value.FromLexical(lh.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", lh.Key, err)
		}
		values[i] = v
	}
	for i, lh := range expanded {
		ds.Set(lh.Key, decl(values[i]))
	}
	return nil
}
