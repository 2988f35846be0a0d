package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMandatoryMapping(t *testing.T) {
	m, err := NewMandatoryMapping([]MappingRule{
		{Child: "Measurement", Parent: "City"},
		{Child: "Reading", Parent: "Measurement"},
	})
	require.NoError(t, err)

	parent, ok := m.ParentOf("Measurement")
	assert.True(t, ok)
	assert.Equal(t, "City", parent)

	_, ok = m.ParentOf("City")
	assert.False(t, ok)

	assert.True(t, m.IsMandatoryChild("Reading"))
	assert.False(t, m.IsMandatoryChild("Contract"))
	assert.Equal(t, 2, m.Len())

	rules := m.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "Measurement", rules[0].Child)
	assert.Equal(t, "Reading", rules[1].Child)
}

func TestNewMandatoryMappingRejectsBadRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []MappingRule
		code    string
		subject string
	}{
		{
			name: "duplicate child",
			rules: []MappingRule{
				{Child: "Measurement", Parent: "City"},
				{Child: "Measurement", Parent: "Contract"},
			},
			code:    CodeDuplicateChild,
			subject: "Measurement",
		},
		{
			name:    "child mapped to itself",
			rules:   []MappingRule{{Child: "City", Parent: "City"}},
			code:    CodeBadMapping,
			subject: "City",
		},
		{
			name: "two rule cycle",
			rules: []MappingRule{
				{Child: "Measurement", Parent: "City"},
				{Child: "City", Parent: "Measurement"},
			},
			code:    CodeMappingCycle,
			subject: "Measurement",
		},
		{
			name: "three rule cycle",
			rules: []MappingRule{
				{Child: "A", Parent: "B"},
				{Child: "B", Parent: "C"},
				{Child: "C", Parent: "A"},
			},
			code:    CodeMappingCycle,
			subject: "A",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMandatoryMapping(tt.rules)
			require.Error(t, err)
			ce, ok := AsConfigError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.subject, ce.Subject)
		})
	}
}

func TestMandatoryMappingNilReceiver(t *testing.T) {
	var m *MandatoryMapping
	_, ok := m.ParentOf("Measurement")
	assert.False(t, ok)
	assert.False(t, m.IsMandatoryChild("Measurement"))
	assert.Nil(t, m.Rules())
	assert.Zero(t, m.Len())
}

func TestTranslationsLookup(t *testing.T) {
	tr := Translations{"Contract": "Contrato", "Empty": ""}
	assert.Equal(t, "Contrato", tr.Lookup("Contract"))
	assert.Equal(t, "Measurement", tr.Lookup("Measurement"))
	assert.Equal(t, "Empty", tr.Lookup("Empty"))

	var none Translations
	assert.Equal(t, "Contract", none.Lookup("Contract"))
}
