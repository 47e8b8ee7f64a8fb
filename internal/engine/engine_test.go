package engine

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/ast"
	"github.com/roach88/mathrw/internal/mathml"
	"github.com/roach88/mathrw/internal/rules"
)

func defaultSuggester(t *testing.T) *Suggester {
	t.Helper()
	catalog := rules.LoadDir(filepath.Join("..", "..", "rules"), zap.NewNop())
	require.GreaterOrEqual(t, catalog.Len(), 13)
	return NewSuggester(catalog, zap.NewNop())
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func presText(opt Option) string {
	return tagPattern.ReplaceAllString(opt.ReplacementPresentationMathML, "")
}

func byRule(options []Option, name string) []Option {
	var out []Option
	for _, o := range options {
		if o.RuleName == name {
			out = append(out, o)
		}
	}
	return out
}

func TestSinDoubleAngleForward(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "trig_double_angle_sin")
	require.NotEmpty(t, matched)
	// Structurally 2*sin(x)*cos(x).
	assert.Contains(t, matched[0].ReplacementContentMathML,
		"<apply><times/><cn>2</cn><apply><sin/><ci>x</ci></apply><apply><cos/><ci>x</ci></apply></apply>")
}

func TestSinDoubleAngleReverse(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><times/><cn>2</cn><apply><sin/><ci>x</ci></apply><apply><cos/><ci>x</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "trig_double_angle_sin")
	require.NotEmpty(t, matched)
	assert.Contains(t, presText(matched[0]), "sin(2x)")
}

func TestCompleteSquareExactlyOnce(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><plus/><apply><power/><ci>x</ci><cn>2</cn></apply><apply><times/><cn>6</cn><ci>x</ci></apply><cn>5</cn></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "complete_square")
	require.Len(t, matched, 1)
	assert.Contains(t, presText(matched[0]), "(x+3)")
	for _, markup := range []string{matched[0].ReplacementContentMathML, matched[0].ReplacementPresentationMathML} {
		assert.NotContains(t, markup, "sqrt")
		assert.NotContains(t, markup, "<mi>i</mi>")
		assert.NotContains(t, markup, "<ci>i</ci>")
	}
}

func TestConjugateLinearity(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><ci>conjugate</ci><apply><plus/><ci>a</ci><ci>b</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "conjugate_linearity")
	require.Len(t, matched, 1, "catalog rule and generator must dedup to one option")
	assert.Contains(t, matched[0].ReplacementContentMathML,
		"<apply><plus/><apply><ci>conjugate</ci><ci>a</ci></apply><apply><ci>conjugate</ci><ci>b</ci></apply></apply>")

	// The product form of the rule must not fire on a sum argument.
	assert.Empty(t, byRule(options, "conjugate_multiplicative"))
}

func TestConjugateReverseGenerator(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><plus/><apply><ci>conjugate</ci><ci>a</ci></apply><apply><ci>conjugate</ci><ci>b</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "conjugate_linearity")
	require.NotEmpty(t, matched)
	assert.Contains(t, matched[0].ReplacementContentMathML,
		"<apply><ci>conjugate</ci><apply><plus/><ci>a</ci><ci>b</ci></apply></apply>")
}

func TestConjugateExpAssumptionGate(t *testing.T) {
	s := defaultSuggester(t)
	markup := "<math><apply><ci>conjugate</ci><apply><exp/><apply><times/><ci>I</ci><ci>theta</ci></apply></apply></apply></math>"

	options, err := s.SuggestMarkup(markup, "", nil)
	require.NoError(t, err)
	assert.Empty(t, byRule(options, "conjugate_exp_i_theta"), "gated rule must be absent without assumptions")

	options, err = s.SuggestMarkup(markup, "", map[string]string{"theta": "real"})
	require.NoError(t, err)
	assert.NotEmpty(t, byRule(options, "conjugate_exp_i_theta"))

	options, err = s.SuggestMarkup(markup, "", map[string]string{"theta": "complex"})
	require.NoError(t, err)
	assert.Empty(t, byRule(options, "conjugate_exp_i_theta"))
}

func TestModulusSquare(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><times/><ci>z</ci><apply><ci>conjugate</ci><ci>z</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "modulus_square")
	require.NotEmpty(t, matched)
	assert.Contains(t, matched[0].ReplacementContentMathML, "<apply><abs/><ci>z</ci></apply>")
}

func TestDerivativeEvaluation(t *testing.T) {
	s := defaultSuggester(t)

	t.Run("power rule simplifies", func(t *testing.T) {
		options, err := s.SuggestMarkup(
			"<math><apply><diff/><ci>x</ci><apply><power/><ci>x</ci><cn>2</cn></apply></apply></math>",
			"", nil)
		require.NoError(t, err)
		matched := byRule(options, "differentiate")
		require.Len(t, matched, 1)
		assert.Equal(t, "differentiate_do_it", matched[0].ID)
		assert.Contains(t, matched[0].ReplacementContentMathML,
			"<apply><times/><cn>2</cn><ci>x</ci></apply>")
	})

	t.Run("trig result stays expanded", func(t *testing.T) {
		options, err := s.SuggestMarkup(
			"<math><apply><diff/><ci>x</ci><apply><power/><apply><sin/><ci>x</ci></apply><cn>2</cn></apply></apply></math>",
			"", nil)
		require.NoError(t, err)
		matched := byRule(options, "differentiate")
		require.Len(t, matched, 1)
		content := matched[0].ReplacementContentMathML
		assert.Contains(t, content, "<sin/>")
		assert.Contains(t, content, "<cos/>")
	})
}

func TestSelectedNodeTargeting(t *testing.T) {
	s := defaultSuggester(t)
	// sin(2x) + 7, selecting the sin(2x) subtree by its stable id.
	markup := "<math><apply><plus/><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply><cn>7</cn></apply></math>"

	sub, err := mathml.Parse("<math><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply></math>")
	require.NoError(t, err)
	subID := ast.HashID(ast.Canonical(sub))

	options, err := s.SuggestMarkup(markup, subID, nil)
	require.NoError(t, err)
	matched := byRule(options, "trig_double_angle_sin")
	require.NotEmpty(t, matched)
	// The suggestion targets the subtree only, so the +7 must not appear.
	assert.NotContains(t, matched[0].ReplacementContentMathML, "<cn>7</cn>")
}

func TestUnknownNodeIDFallsBack(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply></math>",
		"deadbeef", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, byRule(options, "trig_double_angle_sin"))
}

func TestUnparseableMarkupRejected(t *testing.T) {
	s := defaultSuggester(t)
	_, err := s.SuggestMarkup("<math><apply><integral/><ci>x</ci></apply></math>", "", nil)
	require.Error(t, err)
	_, ok := mathml.AsParseError(err)
	assert.True(t, ok)
}

func TestNoOpSuppressionAndAlwaysShow(t *testing.T) {
	identity, err := rules.Compile("a", "a", "identity_noop", "no-op")
	require.NoError(t, err)
	shown, err := rules.Compile("a", "a", "combine_like_terms_add", "always shown")
	require.NoError(t, err)

	s := NewSuggester(rules.NewCatalog([]*rules.Rule{identity, shown}), zap.NewNop())
	options, err := s.SuggestMarkup("<math><ci>q</ci></math>", "", nil)
	require.NoError(t, err)

	assert.Empty(t, byRule(options, "identity_noop"))
	assert.NotEmpty(t, byRule(options, "combine_like_terms_add"))
}

func TestDedupPrefersHigherPriority(t *testing.T) {
	generic, err := rules.Compile("z*conjugate(z)", "abs(z)**2", "generic_modulus", "")
	require.NoError(t, err)
	domain, err := rules.Compile("z*conjugate(z)", "abs(z)**2", "modulus_square", "")
	require.NoError(t, err)

	s := NewSuggester(rules.NewCatalog([]*rules.Rule{generic, domain}), zap.NewNop())
	options, err := s.SuggestMarkup(
		"<math><apply><times/><ci>z</ci><apply><ci>conjugate</ci><ci>z</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	matched := byRule(options, "modulus_square")
	require.Len(t, matched, 1)
	assert.Empty(t, byRule(options, "generic_modulus"), "lower-priority duplicate must be replaced")
}

func TestCombineExponents(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><times/><ci>x</ci><apply><power/><ci>x</ci><cn>2</cn></apply></apply></math>",
		"", nil)
	require.NoError(t, err)
	matched := byRule(options, "combine_exponents")
	require.NotEmpty(t, matched)
	assert.Contains(t, matched[0].ReplacementContentMathML, "<apply><power/><ci>x</ci>")
}

func TestCatalogReverseDirections(t *testing.T) {
	s := defaultSuggester(t)
	tests := []struct {
		name        string
		markup      string
		rule        string
		wantID      string
		wantContent string
	}{
		{
			name: "pythagorean identity folds back",
			markup: "<math><apply><plus/><cn>1</cn><apply><times/><cn>-1</cn>" +
				"<apply><power/><apply><cos/><ci>x</ci></apply><cn>2</cn></apply></apply></apply></math>",
			rule:        "trig_identity_sin2",
			wantID:      "trig_identity_sin2_reverse",
			wantContent: "<apply><power/><apply><sin/><ci>x</ci></apply><cn>2</cn></apply>",
		},
		{
			name: "coefficient times log becomes log of power",
			markup: "<math><apply><times/><ci>b</ci>" +
				"<apply><log/><ci>a</ci></apply></apply></math>",
			rule:        "log_power_pullout",
			wantID:      "log_power_pullout_reverse",
			wantContent: "<apply><log/><apply><power/><ci>a</ci><ci>b</ci></apply></apply>",
		},
		{
			name: "sum exponent splits into a product",
			markup: "<math><apply><power/><ci>x</ci>" +
				"<apply><plus/><ci>a</ci><ci>b</ci></apply></apply></math>",
			rule:   "combine_exponents",
			wantID: "combine_exponents_reverse",
			wantContent: "<apply><times/><apply><power/><ci>x</ci><ci>a</ci></apply>" +
				"<apply><power/><ci>x</ci><ci>b</ci></apply></apply>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := s.SuggestMarkup(tt.markup, "", nil)
			require.NoError(t, err)
			matched := byRule(options, tt.rule)
			require.NotEmpty(t, matched)
			assert.Equal(t, tt.wantID, matched[0].ID)
			assert.Contains(t, matched[0].Label, "(reverse)")
			assert.Contains(t, matched[0].ReplacementContentMathML, tt.wantContent)
		})
	}
}

func TestSuggestionOutputGolden(t *testing.T) {
	s := defaultSuggester(t)
	options, err := s.SuggestMarkup(
		"<math><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply></math>",
		"", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(options))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sin_double_angle_options", buf.Bytes())
}

func TestOptionsAreNeverStructuralNoOps(t *testing.T) {
	s := defaultSuggester(t)
	inputs := []string{
		"<math><apply><sin/><apply><times/><cn>2</cn><ci>x</ci></apply></apply></math>",
		"<math><apply><plus/><apply><power/><ci>x</ci><cn>2</cn></apply><apply><times/><cn>6</cn><ci>x</ci></apply><cn>5</cn></apply></math>",
		"<math><apply><times/><ci>z</ci><apply><ci>conjugate</ci><ci>z</ci></apply></apply></math>",
	}
	for _, markup := range inputs {
		options, err := s.SuggestMarkup(markup, "", nil)
		require.NoError(t, err)
		n, err := mathml.Parse(markup)
		require.NoError(t, err)
		self := mathml.RenderContent(n)
		for _, o := range options {
			assert.NotEqual(t, self, o.ReplacementContentMathML, "rule %s offered a no-op", o.RuleName)
		}
	}
}
