package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/algebra"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"sum", "a + b", "a + b"},
		{"literal difference", "1 - cos(x)**2", "1 - cos(x)^2"},
		{"product and power", "2*sin(x)*cos(x)", "2*sin(x)*cos(x)"},
		{"caret power", "x^2", "x^2"},
		{"double star power", "x**2", "x^2"},
		{"division as inverse power", "b/(2*a)", "b*(2*a)^-1"},
		{"unary minus flattens", "-I*theta", "-1*I*theta"},
		{"imaginary unit", "I", "I"},
		{"conj alias", "conj(z)", "conjugate(z)"},
		{"abs alias", "Abs(z)", "abs(z)"},
		{"full quadratic", "a*x**2 + b*x + c", "a*x^2 + b*x + c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseSide(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParseSideLiteralShape(t *testing.T) {
	// 1-1 must stay a two-term sum, never fold to 0.
	e, err := ParseSide("1 - 1")
	require.NoError(t, err)
	add, ok := e.(*algebra.Add)
	require.True(t, ok)
	assert.Len(t, add.Terms, 2)
}

func TestParseSideErrors(t *testing.T) {
	for _, src := range []string{"", "a +", "(a", "sin(x", "a @ b", "* a"} {
		_, err := ParseSide(src)
		assert.Error(t, err, "src=%q", src)
	}
}

func TestParseLine(t *testing.T) {
	r, err := ParseLine("sin(2*x) rewrite 2*sin(x)*cos(x) # rule: trig_double_angle_sin | label: Double angle")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "trig_double_angle_sin", r.Name)
	assert.Equal(t, "Double angle", r.Label)
	assert.Equal(t, []string{"x"}, r.WildcardNames)
	assert.Equal(t, 2, r.Priority)
}

func TestParseLineDefaults(t *testing.T) {
	r, err := ParseLine("a + b rewrite b + a")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Contains(t, r.Name, "rule_")
	assert.Contains(t, r.Label, "↔")
	assert.Equal(t, []string{"a", "b"}, r.WildcardNames)
}

func TestParseLineSkipsAndRejects(t *testing.T) {
	for _, line := range []string{"", "   ", "# just a comment"} {
		r, err := ParseLine(line)
		assert.NoError(t, err)
		assert.Nil(t, r)
	}
	for _, line := range []string{
		"a + b",
		"a rewrite b rewrite c",
		"rewrite b",
		"a @@ rewrite b",
	} {
		_, err := ParseLine(line)
		assert.Error(t, err, "line=%q", line)
	}
}

func TestCompilePatternsUseWildcards(t *testing.T) {
	r, err := Compile("sin(x)**2", "1 - cos(x)**2", "trig_identity_sin2", "")
	require.NoError(t, err)

	// The pattern side matches any argument; the template keeps the symbol.
	b, ok := algebra.Match(r.LeftPattern, &algebra.Pow{
		Base: &algebra.Func{Name: "sin", Arg: &algebra.Sym{Name: "t"}},
		Exp:  algebra.N(2),
	})
	require.True(t, ok)
	assert.Equal(t, "t", b["x"].String())

	inst := algebra.Instantiate(r.RightTemplate, b)
	assert.Equal(t, "1 - cos(t)^2", inst.String())
}

func TestRuleBidirectional(t *testing.T) {
	// Instantiating the right template and matching it with the right
	// pattern recovers a binding that reproduces the instantiation through
	// the left-then-right round trip.
	r, err := Compile("sin(2*x)", "2*sin(x)*cos(x)", "trig_double_angle_sin", "")
	require.NoError(t, err)

	seed := algebra.Binding{"x": &algebra.Sym{Name: "q"}}
	inst := algebra.Instantiate(r.RightTemplate, seed)

	b, ok := algebra.Match(r.RightPattern, inst)
	require.True(t, ok)
	back := algebra.Instantiate(r.RightTemplate, b)
	assert.True(t, inst.Equal(back))
}

func TestCapabilityAttachment(t *testing.T) {
	guarded, err := Compile("conjugate(exp(I*theta))", "exp(-I*theta)", "conjugate_exp_i_theta", "")
	require.NoError(t, err)
	theta := algebra.Binding{"theta": &algebra.Sym{Name: "theta"}}
	assert.False(t, guarded.Allowed(theta, nil))
	assert.False(t, guarded.Allowed(theta, map[string]string{"theta": "complex"}))
	assert.True(t, guarded.Allowed(theta, map[string]string{"theta": "real"}))
	assert.True(t, guarded.Allowed(theta, map[string]string{"theta": "positive"}))
	composite := algebra.Binding{"theta": &algebra.Add{Terms: []algebra.Expr{&algebra.Sym{Name: "a"}, algebra.N(1)}}}
	assert.False(t, guarded.Allowed(composite, map[string]string{"a": "real"}))

	square, err := Compile("a*x**2 + b*x + c", "a*(x + b/(2*a))**2 - b**2/(4*a) + c", "complete_square", "")
	require.NoError(t, err)
	assert.True(t, square.Allowed(algebra.Binding{"x": &algebra.Sym{Name: "x"}}, nil))
	assert.False(t, square.Allowed(algebra.Binding{"x": &algebra.Pow{Base: &algebra.Sym{Name: "x"}, Exp: algebra.N(2)}}, nil))

	combine, err := Compile("a*x + b*x", "(a + b)*x", "combine_like_terms_add", "")
	require.NoError(t, err)
	assert.True(t, combine.AlwaysShow())
	assert.False(t, square.AlwaysShow())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	content := `# comment line
sin(2*x) rewrite 2*sin(x)*cos(x) # rule: trig_double_angle_sin | label: Double angle

this line is garbage
z*conjugate(z) rewrite abs(z)**2 # rule: modulus_square | label: Modulus squared
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.rewriterules"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("a rewrite b"), 0o644))

	c := LoadDir(dir, zap.NewNop())
	assert.Equal(t, 2, c.Len())
	assert.NotNil(t, c.ByName("trig_double_angle_sin"))
	assert.NotNil(t, c.ByName("modulus_square"))
	assert.Nil(t, c.ByName("nonexistent"))
}

func TestLoadDirMissing(t *testing.T) {
	c := LoadDir(filepath.Join(t.TempDir(), "no-such-dir"), zap.NewNop())
	assert.Equal(t, 0, c.Len())
}

func TestLoadDefaultCatalog(t *testing.T) {
	c := LoadDir(filepath.Join("..", "..", "rules"), zap.NewNop())
	require.GreaterOrEqual(t, c.Len(), 13)
	for _, name := range []string{
		"trig_identity_sin2", "trig_double_angle_sin", "trig_double_angle_cos",
		"combine_like_terms_add", "combine_exponents",
		"log_power_pullout", "log_product", "exp_sum",
		"conjugate_linearity", "conjugate_multiplicative", "conjugate_exp_i_theta",
		"modulus_square", "complete_square",
	} {
		assert.NotNil(t, c.ByName(name), "missing rule %s", name)
	}
}
