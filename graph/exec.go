package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceSchema, BuiltIn: false})

type QueryResolver interface {
	Form(ctx context.Context, sessionID string) (*FormState, error)
	ReferenceData(ctx context.Context, sessionID string) (*models.ReferenceData, error)
}

type MutationResolver interface {
	OpenForm(ctx context.Context) (*FormState, error)
	OpenItemForm(ctx context.Context, itemID int) (*FormState, error)
	CloseForm(ctx context.Context, sessionID string) (bool, error)
	CreateReferenceUnit(ctx context.Context, sessionID string, input models.NewProductUnit) (*models.ProductUnit, error)
	SetName(ctx context.Context, sessionID string, name string, description *string) (*FormState, error)
	SetCategory(ctx context.Context, sessionID string, categoryID int) (*FormState, error)
	SetHasVariants(ctx context.Context, sessionID string, hasVariants bool) (*FormState, error)
	AddUnit(ctx context.Context, sessionID string, input models.NewUnit) (*FormState, error)
	UpdateUnit(ctx context.Context, sessionID string, unitID string, input models.NewUnit) (*FormState, error)
	SetBaseUnit(ctx context.Context, sessionID string, unitID string) (*FormState, error)
	RemoveUnit(ctx context.Context, sessionID string, unitID string) (*FormState, error)
	AddAxis(ctx context.Context, sessionID string, name string, options []string) (*FormState, error)
	RenameAxis(ctx context.Context, sessionID string, axisID string, name string) (*FormState, error)
	RemoveAxis(ctx context.Context, sessionID string, axisID string) (*FormState, error)
	AddAxisOption(ctx context.Context, sessionID string, axisID string, label string) (*FormState, error)
	UpdateAxisOption(ctx context.Context, sessionID string, axisID string, optionID string, input models.NewAxisOption) (*FormState, error)
	RemoveAxisOption(ctx context.Context, sessionID string, axisID string, optionID string) (*FormState, error)
	AddVariant(ctx context.Context, sessionID string, options []models.VariantOption) (*FormState, error)
	RemoveVariant(ctx context.Context, sessionID string, variantID string) (*FormState, error)
	AddVariantUnit(ctx context.Context, sessionID string, input models.NewVariantUnit) (*FormState, error)
	RemoveVariantUnit(ctx context.Context, sessionID string, variantUnitID string) (*FormState, error)
	AcceptCombinations(ctx context.Context, sessionID string, codes []string) (*FormState, error)
	UpdateSku(ctx context.Context, sessionID string, skuID string, input models.SkuInput) (*FormState, error)
	ResetSkuConfig(ctx context.Context, sessionID string, skuID string) (*FormState, error)
	SetGlobalConfig(ctx context.Context, sessionID string, input models.GlobalConfig) (*FormState, error)
	SetUseSameConfig(ctx context.Context, sessionID string, useSameConfig bool) (*FormState, error)
	ApplyGlobalConfig(ctx context.Context, sessionID string) (*FormState, error)
	FlushForm(ctx context.Context, sessionID string) (*FormState, error)
	SubmitForm(ctx context.Context, sessionID string, idempotencyKey *string) (*SubmitResult, error)
}

type fieldResolver func(ctx context.Context, args fieldArgs) (interface{}, error)

// NewExecutableSchema serves schema.graphqls. Root fields call the resolvers and their
// results are projected onto the selection set through their json shape, where a
// field such as conversionFactor is read from the conversion_factor key.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{
		schema: parsedSchema,
		fields: map[string]map[string]fieldResolver{
			"Query":    queryFields(cfg.Resolvers.Query()),
			"Mutation": mutationFields(cfg.Resolvers.Mutation()),
		},
	}
}

type executableSchema struct {
	schema *ast.Schema
	fields map[string]map[string]fieldResolver
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

func (e *executableSchema) Complexity(typeName, field string, childComplexity int, rawArgs map[string]interface{}) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	rc := graphql.GetOperationContext(ctx)
	var root string
	switch rc.Operation.Operation {
	case ast.Query:
		root = "Query"
	case ast.Mutation:
		root = "Mutation"
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
	ec := &executionContext{rc: rc, es: e}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false
		var buf bytes.Buffer
		ec.writeRoot(ctx, &buf, root, rc.Operation.SelectionSet)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

type executionContext struct {
	rc *graphql.OperationContext
	es *executableSchema
}

// writeRoot runs the root fields in document order, mutations therefore run serially.
func (ec *executionContext) writeRoot(ctx context.Context, buf *bytes.Buffer, typeName string, sel ast.SelectionSet) {
	fields := graphql.CollectFields(ec.rc, sel, []string{typeName})
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(buf, f.Alias)
		if f.Name == "__typename" {
			writeJSON(buf, typeName)
			continue
		}
		ec.writeValue(buf, f.Definition.Type, f.Selections, ec.resolveRoot(ctx, typeName, f))
	}
	buf.WriteByte('}')
}

// resolveRoot returns the generic value of a root field, errors are added to the response.
func (ec *executionContext) resolveRoot(ctx context.Context, typeName string, f graphql.CollectedField) (res interface{}) {
	fc := &graphql.FieldContext{Object: typeName, Field: f, IsMethod: true, IsResolver: true}
	ctx = graphql.WithFieldContext(ctx, fc)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("internal system error")
			if ec.rc.RecoverFunc != nil {
				err = ec.rc.RecoverFunc(ctx, r)
			}
			graphql.AddError(ctx, err)
			res = nil
		}
	}()

	switch f.Name {
	case "__schema", "__type":
		if ec.rc.DisableIntrospection {
			graphql.AddError(ctx, errors.New("introspection disabled"))
			return nil
		}
		if f.Name == "__schema" {
			return introspectSchema(ec.es.schema)
		}
		name, _ := f.ArgumentMap(ec.rc.Variables)["name"].(string)
		return namedType(ec.es.schema, ec.es.schema.Types[name])
	}

	resolve, ok := ec.es.fields[typeName][f.Name]
	if !ok {
		graphql.AddError(ctx, fmt.Errorf("%s.%s has no resolver", typeName, f.Name))
		return nil
	}
	rawArgs := f.ArgumentMap(ec.rc.Variables)
	fc.Args = rawArgs
	args, err := coerceArgs(ec.es.schema, f.Definition.Arguments, rawArgs)
	if err != nil {
		graphql.AddError(ctx, err)
		return nil
	}

	next := func(ctx context.Context) (interface{}, error) {
		return resolve(ctx, args)
	}
	var out interface{}
	if ec.rc.ResolverMiddleware != nil {
		out, err = ec.rc.ResolverMiddleware(ctx, next)
	} else {
		out, err = next(ctx)
	}
	if err != nil {
		graphql.AddError(ctx, err)
		return nil
	}
	v, err := toValue(out)
	if err != nil {
		graphql.AddError(ctx, err)
		return nil
	}
	return v
}

func (ec *executionContext) writeValue(buf *bytes.Buffer, typ *ast.Type, sel ast.SelectionSet, v interface{}) {
	if l, ok := v.(lazy); ok {
		v = l()
	}
	if v == nil && typ != nil && typ.Elem != nil && typ.NonNull {
		buf.WriteString("[]")
		return
	}
	if v == nil || typ == nil {
		buf.WriteString("null")
		return
	}
	if typ.Elem != nil {
		list, ok := v.([]interface{})
		if !ok {
			buf.WriteString("null")
			return
		}
		buf.WriteByte('[')
		for i, item := range list {
			if i > 0 {
				buf.WriteByte(',')
			}
			ec.writeValue(buf, typ.Elem, sel, item)
		}
		buf.WriteByte(']')
		return
	}
	if def := ec.es.schema.Types[typ.NamedType]; def != nil && def.Kind == ast.Object {
		obj, ok := v.(map[string]interface{})
		if !ok {
			buf.WriteString("null")
			return
		}
		ec.writeObject(buf, def.Name, sel, obj)
		return
	}
	writeLeaf(buf, typ.NamedType, v)
}

func (ec *executionContext) writeObject(buf *bytes.Buffer, typeName string, sel ast.SelectionSet, obj map[string]interface{}) {
	fields := graphql.CollectFields(ec.rc, sel, []string{typeName})
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(buf, f.Alias)
		if f.Name == "__typename" {
			writeJSON(buf, typeName)
			continue
		}
		ec.writeValue(buf, f.Definition.Type, f.Selections, obj[jsonKey(f.Name)])
	}
	buf.WriteByte('}')
}

func writeLeaf(buf *bytes.Buffer, scalar string, v interface{}) {
	if scalar == "Decimal" {
		if d, err := UnmarshalDecimal(v); err == nil {
			MarshalDecimal(d).MarshalGQL(buf)
			return
		}
	}
	writeJSON(buf, v)
}

func writeKey(buf *bytes.Buffer, key string) {
	writeJSON(buf, key)
	buf.WriteByte(':')
}

func writeJSON(buf *bytes.Buffer, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		buf.WriteString("null")
		return
	}
	buf.Write(data)
}

// toValue turns a resolver result into maps, slices and json scalars.
func toValue(v interface{}) (interface{}, error) {
	switch v.(type) {
	case nil, lazy, map[string]interface{}, []interface{}:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// jsonKey maps a GraphQL name to the json key of the models, e.g. conversionFactor to conversion_factor.
func jsonKey(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
