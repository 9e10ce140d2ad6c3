package submission

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mojjammil/dokicasa-integration/internal/common/errors"
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==== Resolver ====

func TestResolver_EveryPair(t *testing.T) {
	r := NewResolver("https://app.dokicasa.it", nil)
	cat := registry.DefaultCatalog()

	for _, city := range registry.Cities {
		for _, ct := range registry.ContractTypes {
			slug, ok := cat.Step3Slug(city, ct)
			require.True(t, ok)

			got, err := r.Step3URL(city, ct)
			require.NoError(t, err)
			assert.Equal(t, "https://app.dokicasa.it/api/v3/form/"+slug, got)
		}

		got, err := r.Step4URL(city)
		require.NoError(t, err)
		assert.Equal(t, "https://app.dokicasa.it/api/v3/form/creazione-documenti-canone-concordato-"+string(city), got)
	}
}

func TestResolver_KnownSlugs(t *testing.T) {
	r := NewResolver("https://app.dokicasa.it", nil)

	got, err := r.Step3URL(registry.CityRoma, registry.ContractCanone3x2)
	require.NoError(t, err)
	assert.Equal(t, "https://app.dokicasa.it/api/v3/form/locazione-canone-concordato-roma", got)

	got, err = r.Step3URL(registry.CityMilano, registry.ContractStudentiUniversitari)
	require.NoError(t, err)
	assert.Equal(t, "https://app.dokicasa.it/api/v3/form/locazione-studenti-universitari-milano", got)
}

func TestResolver_Unsupported(t *testing.T) {
	r := NewResolver("", nil)

	tests := []struct {
		name string
		call func() error
	}{
		{"unknown city step 3", func() error {
			_, err := r.Step3URL("napoli", registry.ContractCanone3x2)
			return err
		}},
		{"unknown contract type", func() error {
			_, err := r.Step3URL(registry.CityMilano, "locazione-libera")
			return err
		}},
		{"unknown city step 4", func() error {
			_, err := r.Step4URL("napoli")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, errors.KindUnsupportedCombination, stdErr.Kind())
		})
	}
}

func TestResolver_TrimsBaseURL(t *testing.T) {
	r := NewResolver("https://staging.example///", nil)
	got, err := r.Step4URL(registry.CityTorino)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example/api/v3/form/creazione-documenti-canone-concordato-torino", got)

	def := NewResolver("  ", nil)
	got, err = def.Step4URL(registry.CityTorino)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://app.dokicasa.it/api/v3/form/"))
}

func TestResolver_Idempotent(t *testing.T) {
	r := NewResolver("https://app.dokicasa.it", nil)
	a, errA := r.Step3URL(registry.CityMilano, registry.ContractTransitoriaCanone)
	b, errB := r.Step3URL(registry.CityMilano, registry.ContractTransitoriaCanone)
	assert.Equal(t, a, b)
	assert.Equal(t, errA, errB)
}

// ==== Schema ====

func TestParseSchema_PreservesOrder(t *testing.T) {
	body := `{"form":{"zeta":{"is_required":true},"alpha":{"is_required":false},"mid":{"question":"Q"}}}`

	schema, err := ParseSchema([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, schema.Order)
	assert.Equal(t, "Q", schema.Fields["mid"]["question"])
}

func TestParseSchema_Variants(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantOrder []string
	}{
		{"whole body when no form key", `{"b":{},"a":{}}`, []string{"b", "a"}},
		{"null form falls back to body", `{"form":null,"x":{}}`, []string{"form", "x"}},
		{"non object form", `{"form":"oops"}`, []string{}},
		{"empty body", ``, []string{}},
		{"array body", `[1,2]`, []string{}},
		{"non object field metadata", `{"form":{"a":"text","b":{"is_required":1}}}`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := ParseSchema([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, schema.Order)
			for _, id := range schema.Order {
				assert.NotNil(t, schema.Fields[id])
			}
		})
	}
}

func TestParseSchema_Malformed(t *testing.T) {
	_, err := ParseSchema([]byte(`{"form":{"a":`))
	assert.Error(t, err)
}

func TestParseSchema_KeepsNumbers(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"form":{"a":{"is_required":1}}}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), schema.Fields["a"]["is_required"])
}

// ==== Mapper ====

func TestMergeValues(t *testing.T) {
	schema := FieldSchema{
		Order: []string{"nome", "garante", "vuoto"},
		Fields: map[string]map[string]interface{}{
			"nome":    {"question": "Nome", "is_required": true},
			"garante": {"type": "list"},
			"vuoto":   {"is_required": false},
		},
	}
	values := map[string]interface{}{
		"nome":    "Mario",
		"garante": []interface{}{},
		"vuoto":   nil,
		"extra":   "dropped",
	}

	merged := MergeValues(schema, values)

	want := MergedForm{
		"nome":    {"question": "Nome", "is_required": true, "value": "Mario"},
		"garante": {"type": "list", "value": []interface{}{}},
		"vuoto":   {"is_required": false, "value": ""},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merged form mismatch (-want +got):\n%s", diff)
	}

	assert.NotContains(t, schema.Fields["nome"], "value")
	assert.Len(t, values, 4)
}

func TestMergeValues_EmptySchema(t *testing.T) {
	merged := MergeValues(FieldSchema{}, map[string]interface{}{"a": 1})
	assert.Empty(t, merged)
}

// ==== Validator ====

func TestMissingFields(t *testing.T) {
	form := MergedForm{
		"a": {"is_required": true, "value": ""},
		"b": {"is_required": json.Number("1"), "value": nil},
		"c": {"is_required": true, "value": "ok"},
		"d": {"is_required": false, "value": ""},
		"e": {"is_required": "true", "value": ""},
		"f": {"is_required": json.Number("0"), "value": ""},
		"g": {"is_required": true, "value": []interface{}{}},
		"h": {"is_required": true, "value": false},
		"i": {"value": ""},
	}
	order := []string{"i", "h", "g", "f", "e", "d", "c", "b", "a", "not-in-form"}

	assert.Equal(t, []string{"e", "b", "a"}, MissingFields(form, order))
}

func TestIsRequired_Truthiness(t *testing.T) {
	tests := []struct {
		flag interface{}
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"yes", true},
		{"0", true},
		{"false", true},
		{json.Number("0"), false},
		{json.Number("2"), true},
		{float64(0), false},
		{math.NaN(), false},
		{-1.5, true},
		{map[string]interface{}{}, true},
		{[]interface{}{}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRequired(tt.flag), "is_required=%#v", tt.flag)
	}
}

func TestMissingFields_ObjectFlagIsRequired(t *testing.T) {
	form := MergedForm{
		"garante": {"is_required": map[string]interface{}{"if": "tipo"}, "value": ""},
		"note":    {"is_required": "", "value": ""},
	}
	assert.Equal(t, []string{"garante"}, MissingFields(form, []string{"garante", "note"}))
}

func TestMissingFields_NoneMissing(t *testing.T) {
	form := MergedForm{"a": {"is_required": true, "value": "x"}}
	got := MissingFields(form, []string{"a"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMissingFields_Idempotent(t *testing.T) {
	form := MergedForm{"a": {"is_required": true, "value": ""}}
	first := MissingFields(form, []string{"a"})
	second := MissingFields(form, []string{"a"})
	assert.Equal(t, first, second)
	assert.Equal(t, "", form["a"]["value"])
}

// ==== Filtered fields & identifier ====

func TestIsFilteredFieldsResponse(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
		want bool
	}{
		{"signature", map[string]interface{}{"messages": map[string]interface{}{"has_errors": false, "errors": []interface{}{}}}, true},
		{"has errors", map[string]interface{}{"messages": map[string]interface{}{"has_errors": true, "errors": []interface{}{}}}, false},
		{"non empty errors", map[string]interface{}{"messages": map[string]interface{}{"has_errors": false, "errors": []interface{}{"x"}}}, false},
		{"missing errors", map[string]interface{}{"messages": map[string]interface{}{"has_errors": false}}, false},
		{"no messages", map[string]interface{}{"error": "boom"}, false},
		{"string body", "Validation failed", false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFilteredFieldsResponse(tt.body))
		})
	}
}

func TestExtractStep3ID(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		want   interface{}
		wantOK bool
	}{
		{"id", map[string]interface{}{"id": "FORM123", "uuid": "u"}, "FORM123", true},
		{"uuid fallback", map[string]interface{}{"uuid": "u-1", "formId": "f"}, "u-1", true},
		{"formId fallback", map[string]interface{}{"formId": json.Number("77")}, json.Number("77"), true},
		{"empty id skipped", map[string]interface{}{"id": "", "uuid": "u-2"}, "u-2", true},
		{"null id skipped", map[string]interface{}{"id": nil, "formId": "f-3"}, "f-3", true},
		{"none", map[string]interface{}{"documentId": "DOC"}, nil, false},
		{"not an object", "FORM123", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractStep3ID(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
