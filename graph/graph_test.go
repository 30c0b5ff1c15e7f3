package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"bitbucket.org/mmdatafocus/catalog_backend/workflow"
	"github.com/99designs/gqlgen/graphql/handler"
)

const testBusinessId = "6f1c2c1e-3a52-4c7e-9a0e-2b8d0f6b1a11"

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	refs := workflow.ReferenceDataFunc(func(ctx context.Context) (*models.ReferenceData, error) {
		return &models.ReferenceData{}, nil
	})
	registry := workflow.NewSessionRegistry(refs, nil, workflow.RedisSubmitLocker{}, nil)
	registry.SetDebounce(time.Hour)
	t.Cleanup(registry.CloseAll)

	h := handler.NewDefaultServer(NewExecutableSchema(Config{Resolvers: &Resolver{Registry: registry}}))
	h.SetErrorPresenter(ErrorPresenter)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := utils.SetBusinessIdInContext(r.Context(), testBusinessId)
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func exec(t *testing.T, h http.Handler, query string, vars map[string]interface{}) gqlResponse {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp gqlResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return resp
}

func field(t *testing.T, resp gqlResponse, name string, out interface{}) {
	t.Helper()
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
	if err := json.Unmarshal(resp.Data[name], out); err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
}

func errorCode(t *testing.T, resp gqlResponse) string {
	t.Helper()
	if len(resp.Errors) == 0 {
		t.Fatalf("expected an error, got data %s", resp.Data)
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

func openForm(t *testing.T, h http.Handler) string {
	t.Helper()
	var form struct {
		SessionId string `json:"sessionId"`
	}
	field(t, exec(t, h, `mutation { openForm { sessionId } }`, nil), "openForm", &form)
	if form.SessionId == "" {
		t.Fatalf("openForm should return a session id")
	}
	return form.SessionId
}

func TestGraph_AxisFlow(t *testing.T) {
	h := testHandler(t)
	sid := openForm(t, h)
	vars := map[string]interface{}{"sid": sid}

	var edited struct {
		Pending bool `json:"pending"`
		Draft   struct {
			Axes []struct {
				Name    string `json:"name"`
				Options []struct {
					Label string `json:"label"`
				} `json:"options"`
			} `json:"axes"`
		} `json:"draft"`
	}
	resp := exec(t, h, `mutation($sid: ID!) {
		setName(sessionId: $sid, name: "Teh") { pending }
		setHasVariants(sessionId: $sid, hasVariants: true) { pending }
		addAxis(sessionId: $sid, name: "Size", options: ["S", "M"]) { pending draft { axes { name options { label } } } }
	}`, vars)
	field(t, resp, "addAxis", &edited)
	if !edited.Pending || len(edited.Draft.Axes) != 1 || len(edited.Draft.Axes[0].Options) != 2 {
		t.Fatalf("axis edit should be pending, got %+v", edited)
	}

	var flushed struct {
		Typename string `json:"__typename"`
		Pending  bool   `json:"pending"`
		Mode     string `json:"mode"`
		Draft    struct {
			Variants []struct {
				OptionsKey  string `json:"optionsKey"`
				DisplayName string `json:"displayName"`
			} `json:"variants"`
		} `json:"draft"`
	}
	resp = exec(t, h, `mutation($sid: ID!) {
		flushed: flushForm(sessionId: $sid) { __typename pending mode: configMode draft { variants { optionsKey displayName } } }
	}`, vars)
	field(t, resp, "flushed", &flushed)
	if flushed.Typename != "FormState" {
		t.Fatalf("expected __typename FormState, got %q", flushed.Typename)
	}
	if flushed.Pending || len(flushed.Draft.Variants) != 2 {
		t.Fatalf("flush should generate variants, got %+v", flushed)
	}
	if flushed.Mode == "" || flushed.Draft.Variants[0].OptionsKey == "" {
		t.Fatalf("aliased and camel case fields should be projected, got %+v", flushed)
	}

	var closed bool
	field(t, exec(t, h, `mutation($sid: ID!) { closeForm(sessionId: $sid) }`, vars), "closeForm", &closed)
	if !closed {
		t.Fatalf("closeForm should answer true")
	}
	if code := errorCode(t, exec(t, h, `query($sid: ID!) { form(sessionId: $sid) { sessionId } }`, vars)); code != CodeNotFound {
		t.Fatalf("closed session should be %s, got %s", CodeNotFound, code)
	}
}

func TestGraph_DecimalScalar(t *testing.T) {
	h := testHandler(t)
	sid := openForm(t, h)

	var form struct {
		Draft struct {
			GlobalConfig struct {
				Price struct {
					Amount json.Number `json:"amount"`
					MinQty json.Number `json:"minQty"`
				} `json:"price"`
			} `json:"globalConfig"`
		} `json:"draft"`
	}
	resp := exec(t, h, `mutation($sid: ID!) {
		setGlobalConfig(sessionId: $sid, input: { price: { amount: "MMK 1,500.50" } }) { draft { globalConfig { price { amount minQty } } } }
	}`, map[string]interface{}{"sid": sid})
	field(t, resp, "setGlobalConfig", &form)
	if form.Draft.GlobalConfig.Price.Amount.String() != "1500.5" {
		t.Fatalf("expected amount 1500.5, got %s", form.Draft.GlobalConfig.Price.Amount)
	}
	if form.Draft.GlobalConfig.Price.MinQty.String() != "1" {
		t.Fatalf("min qty should default to 1, got %s", form.Draft.GlobalConfig.Price.MinQty)
	}
}

func TestGraph_ErrorCodes(t *testing.T) {
	h := testHandler(t)
	sid := openForm(t, h)
	vars := map[string]interface{}{"sid": sid}

	cases := []struct {
		name     string
		query    string
		expected string
	}{
		{"unknown session", `query { form(sessionId: "missing") { sessionId } }`, CodeNotFound},
		{"malformed decimal", `mutation($sid: ID!) { setGlobalConfig(sessionId: $sid, input: { price: { amount: "abc" } }) { pending } }`, CodeBadUserInput},
		{"blank axis name", `mutation($sid: ID!) { addAxis(sessionId: $sid, name: "") { pending } }`, CodeBadUserInput},
		{"empty accept", `mutation($sid: ID!) { acceptCombinations(sessionId: $sid, codes: []) { pending } }`, CodeBadUserInput},
		{"unknown sku", `mutation($sid: ID!) { updateSku(sessionId: $sid, skuId: "missing", input: { barcode: "1" }) { pending } }`, CodeNotFound},
		{"unknown axis", `mutation($sid: ID!) { removeAxis(sessionId: $sid, axisId: "missing") { pending } }`, CodeNotFound},
	}
	for _, tc := range cases {
		if code := errorCode(t, exec(t, h, tc.query, vars)); code != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, code)
		}
	}

	resp := exec(t, h, `mutation($sid: ID!) { addAxis(sessionId: $sid, name: "") { pending } }`, vars)
	if resp.Errors[0].Message != "validation failed" || resp.Errors[0].Extensions["fields"] == nil {
		t.Fatalf("validation errors should list fields, got %+v", resp.Errors[0])
	}
}

func TestGraph_Introspection(t *testing.T) {
	h := testHandler(t)

	var schema struct {
		QueryType struct {
			Name string `json:"name"`
		} `json:"queryType"`
		MutationType struct {
			Name string `json:"name"`
		} `json:"mutationType"`
	}
	field(t, exec(t, h, `{ __schema { queryType { name } mutationType { name } } }`, nil), "__schema", &schema)
	if schema.QueryType.Name != "Query" || schema.MutationType.Name != "Mutation" {
		t.Fatalf("unexpected root types %+v", schema)
	}

	var typ struct {
		Kind   string `json:"kind"`
		Fields []struct {
			Name string `json:"name"`
			Type struct {
				Kind   string `json:"kind"`
				OfType struct {
					Name string `json:"name"`
				} `json:"ofType"`
			} `json:"type"`
		} `json:"fields"`
	}
	field(t, exec(t, h, `{ __type(name: "FormState") { kind fields { name type { kind ofType { name } } } } }`, nil), "__type", &typ)
	if typ.Kind != "OBJECT" {
		t.Fatalf("expected OBJECT, got %s", typ.Kind)
	}
	found := false
	for _, f := range typ.Fields {
		if f.Name == "draft" {
			found = f.Type.Kind == "NON_NULL" && f.Type.OfType.Name == "ItemDraft"
		}
	}
	if !found {
		t.Fatalf("FormState.draft should be ItemDraft!, got %+v", typ.Fields)
	}
}

func TestJsonKey(t *testing.T) {
	cases := map[string]string{
		"sessionId":          "session_id",
		"conversionFactor":   "conversion_factor",
		"variantPersistedId": "variant_persisted_id",
		"name":               "name",
	}
	for in, expected := range cases {
		if got := jsonKey(in); got != expected {
			t.Fatalf("jsonKey(%s) expected %s, got %s", in, expected, got)
		}
	}
}
