package graph

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// lazy values are expanded only when a selection reaches them, so the
// recursive type graph of __schema terminates.
type lazy func() interface{}

func fields(pairs ...interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[jsonKey(pairs[i].(string))] = pairs[i+1]
	}
	return out
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func introspectSchema(s *ast.Schema) map[string]interface{} {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	types := make([]interface{}, 0, len(names))
	for _, name := range names {
		types = append(types, namedType(s, s.Types[name]))
	}

	dirNames := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	directives := make([]interface{}, 0, len(dirNames))
	for _, name := range dirNames {
		directives = append(directives, directive(s, s.Directives[name]))
	}

	return fields(
		"description", nil,
		"types", types,
		"queryType", namedType(s, s.Query),
		"mutationType", namedType(s, s.Mutation),
		"subscriptionType", namedType(s, s.Subscription),
		"directives", directives,
	)
}

func namedType(s *ast.Schema, def *ast.Definition) interface{} {
	if def == nil {
		return nil
	}
	return lazy(func() interface{} { return describeType(s, def) })
}

func describeType(s *ast.Schema, def *ast.Definition) map[string]interface{} {
	t := fields(
		"kind", string(def.Kind),
		"name", def.Name,
		"description", optional(def.Description),
	)
	switch def.Kind {
	case ast.Object, ast.Interface:
		list := make([]interface{}, 0, len(def.Fields))
		for _, f := range def.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			deprecated, reason := deprecation(f.Directives)
			list = append(list, fields(
				"name", f.Name,
				"description", optional(f.Description),
				"args", inputValues(s, f.Arguments),
				"type", typeRef(s, f.Type),
				"isDeprecated", deprecated,
				"deprecationReason", reason,
			))
		}
		t["fields"] = list
		interfaces := []interface{}{}
		for _, i := range s.GetImplements(def) {
			interfaces = append(interfaces, namedType(s, i))
		}
		t["interfaces"] = interfaces
		if def.Kind == ast.Interface {
			t[jsonKey("possibleTypes")] = possibleTypes(s, def)
		}
	case ast.Union:
		t[jsonKey("possibleTypes")] = possibleTypes(s, def)
	case ast.Enum:
		values := make([]interface{}, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			deprecated, reason := deprecation(v.Directives)
			values = append(values, fields(
				"name", v.Name,
				"description", optional(v.Description),
				"isDeprecated", deprecated,
				"deprecationReason", reason,
			))
		}
		t[jsonKey("enumValues")] = values
	case ast.InputObject:
		list := make([]interface{}, 0, len(def.Fields))
		for _, f := range def.Fields {
			list = append(list, inputValue(s, f.Name, f.Description, f.Type, f.DefaultValue))
		}
		t[jsonKey("inputFields")] = list
	}
	return t
}

func possibleTypes(s *ast.Schema, def *ast.Definition) []interface{} {
	out := []interface{}{}
	for _, p := range s.GetPossibleTypes(def) {
		out = append(out, namedType(s, p))
	}
	return out
}

func typeRef(s *ast.Schema, t *ast.Type) interface{} {
	if t == nil {
		return nil
	}
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		return fields("kind", "NON_NULL", "ofType", typeRef(s, &inner))
	}
	if t.Elem != nil {
		return fields("kind", "LIST", "ofType", typeRef(s, t.Elem))
	}
	return namedType(s, s.Types[t.NamedType])
}

func inputValues(s *ast.Schema, args ast.ArgumentDefinitionList) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		out = append(out, inputValue(s, a.Name, a.Description, a.Type, a.DefaultValue))
	}
	return out
}

func inputValue(s *ast.Schema, name, description string, typ *ast.Type, defaultValue *ast.Value) map[string]interface{} {
	var dv interface{}
	if defaultValue != nil {
		dv = defaultValue.String()
	}
	return fields(
		"name", name,
		"description", optional(description),
		"type", typeRef(s, typ),
		"defaultValue", dv,
	)
}

func directive(s *ast.Schema, d *ast.DirectiveDefinition) map[string]interface{} {
	locations := make([]interface{}, 0, len(d.Locations))
	for _, l := range d.Locations {
		locations = append(locations, string(l))
	}
	return fields(
		"name", d.Name,
		"description", optional(d.Description),
		"locations", locations,
		"args", inputValues(s, d.Arguments),
		"isRepeatable", d.IsRepeatable,
	)
}

func deprecation(directives ast.DirectiveList) (bool, interface{}) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, nil
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return true, reason
}
