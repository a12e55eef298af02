package pongo

import (
	"fmt"
	"sort"
	"sync"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/multierr"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
	"github.com/goliatone/go-widgettweaks/pkg/tweaks"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Filters lists the widget filters registered with pongo2.
var Filters = map[string]pongo2.FilterFunction{
	"attr":            filterAttr,
	"append_attr":     filterAppendAttr,
	"add_class":       filterAddClass,
	"add_error_class": filterAddErrorClass,
	"set_data":        filterSetData,
	"field_type":      filterFieldType,
	"widget_type":     filterWidgetType,
}

// Register installs the widget filters and the render_field tag in pongo2's
// process-wide registry. It is safe to call more than once; New calls it. A
// filter name already taken by someone else is reported, not skipped.
func Register() error {
	registerOnce.Do(func() {
		registerErr = multierr.Append(
			registerFilters(Filters),
			pongo2.RegisterTag(tweaks.TagName, tagRenderFieldParser),
		)
	})
	return registerErr
}

func registerFilters(filters map[string]pongo2.FilterFunction) error {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		if pongo2.FilterExists(name) {
			errs = multierr.Append(errs, fmt.Errorf("pongo: filter %q is already registered", name))
			continue
		}
		errs = multierr.Append(errs, pongo2.RegisterFilter(name, filters[name]))
	}
	return errs
}

func filterAttr(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return asValue(tweaks.Attr(in.Interface(), paramString(param))), nil
}

func filterAppendAttr(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return asValue(tweaks.AppendAttr(in.Interface(), paramString(param))), nil
}

func filterAddClass(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return asValue(tweaks.AddClass(in.Interface(), paramString(param))), nil
}

func filterAddErrorClass(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return asValue(tweaks.AddErrorClass(in.Interface(), paramString(param))), nil
}

func filterSetData(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return asValue(tweaks.SetData(in.Interface(), paramString(param))), nil
}

func filterFieldType(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(tweaks.FieldType(in.Interface())), nil
}

func filterWidgetType(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(tweaks.WidgetType(in.Interface())), nil
}

// asValue marks rendered widgets safe so autoescaping leaves the markup
// alone; anything else keeps normal escaping.
func asValue(v any) *pongo2.Value {
	if _, ok := v.(forms.BoundWidget); ok {
		return pongo2.AsSafeValue(v)
	}
	return pongo2.AsValue(v)
}

func paramString(param *pongo2.Value) string {
	if param == nil || param.IsNil() {
		return ""
	}
	return param.String()
}

type attrExpr struct {
	name  string
	op    tweaks.Op
	value pongo2.IEvaluator
}

type tagRenderFieldNode struct {
	field pongo2.IEvaluator
	attrs []attrExpr
}

func (node *tagRenderFieldNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	field, err := node.field.Evaluate(ctx)
	if err != nil {
		return err
	}

	directives := make([]tweaks.Directive, 0, len(node.attrs))
	for _, attr := range node.attrs {
		value, err := attr.value.Evaluate(ctx)
		if err != nil {
			return err
		}
		directives = append(directives, tweaks.Directive{Name: attr.name, Op: attr.op, Value: value.String()})
	}

	out, renderErr := tweaks.Render(tweaks.Apply(field.Interface(), directives...))
	if renderErr != nil {
		return &pongo2.Error{Sender: "tag:" + tweaks.TagName, OrigError: renderErr}
	}
	if _, werr := writer.WriteString(string(out)); werr != nil {
		return &pongo2.Error{Sender: "tag:" + tweaks.TagName, OrigError: werr}
	}
	return nil
}

// tagRenderFieldParser parses
//
//	{% render_field form.email class="input" class+=extra %}
//
// The field and every value are pongo2 expressions, so filters and variables
// work on either side.
func tagRenderFieldParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	if arguments.Remaining() == 0 {
		return nil, arguments.Error((&tweaks.SyntaxError{Tag: tweaks.TagName}).Error(), start)
	}

	field, err := arguments.ParseExpression()
	if err != nil {
		return nil, err
	}
	node := &tagRenderFieldNode{field: field}

	for arguments.Remaining() > 0 {
		first := arguments.Current()
		name, ok := parseAttrName(arguments)
		if !ok {
			return nil, syntaxError(arguments, first)
		}
		op, ok := parseOperator(arguments)
		if !ok || arguments.Remaining() == 0 {
			return nil, syntaxError(arguments, first)
		}
		value, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.attrs = append(node.attrs, attrExpr{name: name, op: op, value: value})
	}
	return node, nil
}

// parseAttrName consumes a name such as "class" or "data-user-id". The lexer
// splits dashed names into identifier and "-" tokens.
func parseAttrName(arguments *pongo2.Parser) (string, bool) {
	tok := arguments.Current()
	if tok == nil || (tok.Typ != pongo2.TokenIdentifier && tok.Typ != pongo2.TokenKeyword) {
		return "", false
	}
	name := tok.Val
	arguments.Consume()

	for arguments.Peek(pongo2.TokenSymbol, "-") != nil {
		arguments.Consume()
		part := arguments.Current()
		if part == nil {
			return "", false
		}
		switch part.Typ {
		case pongo2.TokenIdentifier, pongo2.TokenKeyword, pongo2.TokenNumber:
		default:
			return "", false
		}
		name += "-" + part.Val
		arguments.Consume()
	}
	return name, true
}

func parseOperator(arguments *pongo2.Parser) (tweaks.Op, bool) {
	if arguments.Match(pongo2.TokenSymbol, "+=") != nil {
		return tweaks.OpAppend, true
	}
	if arguments.Match(pongo2.TokenSymbol, "+") != nil {
		if arguments.Match(pongo2.TokenSymbol, "=") == nil {
			return 0, false
		}
		return tweaks.OpAppend, true
	}
	if arguments.Match(pongo2.TokenSymbol, "=") != nil {
		return tweaks.OpSet, true
	}
	return 0, false
}

func syntaxError(arguments *pongo2.Parser, token *pongo2.Token) *pongo2.Error {
	syntax := &tweaks.SyntaxError{Tag: tweaks.TagName}
	if token != nil {
		syntax.Token = token.Val
	}
	return arguments.Error(syntax.Error(), token)
}
