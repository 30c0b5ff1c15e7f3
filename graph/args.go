package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/vektah/gqlparser/v2/ast"
)

// fieldArgs holds the coerced arguments of one field. Input objects are keyed the
// way the models decode them.
type fieldArgs map[string]interface{}

func (a fieldArgs) String(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a fieldArgs) StringPtr(name string) *string {
	s, ok := a[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func (a fieldArgs) Int(name string) int {
	n, _ := a[name].(int64)
	return int(n)
}

func (a fieldArgs) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

func (a fieldArgs) Strings(name string) []string {
	list, _ := a[name].([]interface{})
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Decode fills out from an input object or list argument.
func (a fieldArgs) Decode(name string, out interface{}) error {
	data, err := json.Marshal(a[name])
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrInvalidInput, name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrInvalidInput, name, err)
	}
	return nil
}

func coerceArgs(schema *ast.Schema, defs ast.ArgumentDefinitionList, raw map[string]interface{}) (fieldArgs, error) {
	args := make(fieldArgs, len(defs))
	for _, def := range defs {
		v, ok := raw[def.Name]
		if !ok {
			continue
		}
		c, err := coerceValue(schema, def.Type, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", utils.ErrInvalidInput, def.Name, err)
		}
		args[def.Name] = c
	}
	return args, nil
}

func coerceValue(schema *ast.Schema, typ *ast.Type, v interface{}) (interface{}, error) {
	if v == nil {
		if typ.NonNull {
			return nil, fmt.Errorf("must not be null")
		}
		return nil, nil
	}
	if typ.Elem != nil {
		list, ok := v.([]interface{})
		if !ok {
			list = []interface{}{v}
		}
		out := make([]interface{}, len(list))
		for i, item := range list {
			c, err := coerceValue(schema, typ.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %v", i, err)
			}
			out[i] = c
		}
		return out, nil
	}

	def := schema.Types[typ.NamedType]
	if def != nil && def.Kind == ast.InputObject {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected %s object", def.Name)
		}
		out := make(map[string]interface{}, len(obj))
		for _, f := range def.Fields {
			fv, ok := obj[f.Name]
			if !ok {
				continue
			}
			c, err := coerceValue(schema, f.Type, fv)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", f.Name, err)
			}
			out[jsonKey(f.Name)] = c
		}
		return out, nil
	}

	switch typ.NamedType {
	case "Decimal":
		d, err := UnmarshalDecimal(v)
		if err != nil {
			return nil, err
		}
		return d.String(), nil
	case "Int":
		return coerceInt(v)
	case "ID":
		switch id := v.(type) {
		case string:
			return id, nil
		case json.Number:
			return id.String(), nil
		case int64:
			return strconv.FormatInt(id, 10), nil
		case int:
			return strconv.Itoa(id), nil
		}
		return nil, fmt.Errorf("invalid ID %v", v)
	}
	return v, nil
}

func coerceInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case float64:
		if n == math.Trunc(n) {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("invalid Int %v", v)
}
