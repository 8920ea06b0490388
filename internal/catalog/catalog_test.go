package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/lernify/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"Frontend Development", "Backend Development", "AI & ML"}, c.Domains())
	assert.Equal(t, DefaultPolicy(), c.Policy())

	steps, err := c.StepsFor("Frontend Development")
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "html-css", steps[0].ID)
	assert.Equal(t, "react-basics", steps[2].ID)
	for _, s := range steps {
		assert.Equal(t, 20, s.MaxScore)
	}

	ids, err := c.StepIDs("AI & ML")
	require.NoError(t, err)
	assert.Equal(t, []string{"py-numpy", "pandas-ml", "models"}, ids)
}

func TestStepsFor_ReturnsCopy(t *testing.T) {
	c := Default()

	steps, err := c.StepsFor("Backend Development")
	require.NoError(t, err)
	steps[0].ID = "mutated"

	again, err := c.StepsFor("Backend Development")
	require.NoError(t, err)
	assert.Equal(t, "python-basics", again[0].ID)
}

func TestStepsFor_UnknownDomain(t *testing.T) {
	c := Default()

	_, err := c.StepsFor("Cooking")
	var domainErr *UnknownDomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "Cooking", domainErr.Domain)
	assert.False(t, c.HasDomain("Cooking"))
	assert.True(t, c.HasDomain("AI & ML"))
}

func TestStepIndex(t *testing.T) {
	c := Default()

	i, err := c.StepIndex("Backend Development", "database")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = c.StepIndex("Backend Development", "html-css")
	var stepErr *UnknownStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "html-css", stepErr.StepID)

	_, err = c.StepIndex("Nope", "html-css")
	var domainErr *UnknownDomainError
	assert.ErrorAs(t, err, &domainErr)
}

func TestPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.StepScoreInRange(0))
	assert.True(t, p.StepScoreInRange(20))
	assert.False(t, p.StepScoreInRange(21))
	assert.False(t, p.StepScoreInRange(-1))

	assert.False(t, p.StepPassed(11))
	assert.True(t, p.StepPassed(12))

	assert.True(t, p.FinalScoreInRange(100))
	assert.False(t, p.FinalScoreInRange(101))
	assert.False(t, p.FinalPassed(59))
	assert.True(t, p.FinalPassed(60))
}

func TestNew_Invalid(t *testing.T) {
	step := Step{ID: "a", Title: "A"}
	tests := []struct {
		name    string
		domains []Domain
		policy  Policy
	}{
		{"no domains", nil, DefaultPolicy()},
		{"empty name", []Domain{{Name: "", Steps: []Step{step}}}, DefaultPolicy()},
		{"duplicate domain", []Domain{{Name: "X", Steps: []Step{step}}, {Name: "X", Steps: []Step{step}}}, DefaultPolicy()},
		{"no steps", []Domain{{Name: "X"}}, DefaultPolicy()},
		{"empty step id", []Domain{{Name: "X", Steps: []Step{{Title: "A"}}}}, DefaultPolicy()},
		{"duplicate step", []Domain{{Name: "X", Steps: []Step{step, step}}}, DefaultPolicy()},
		{"mismatched max score", []Domain{{Name: "X", Steps: []Step{{ID: "a", MaxScore: 10}}}}, DefaultPolicy()},
		{"pass above max", []Domain{{Name: "X", Steps: []Step{step}}}, Policy{StepMaxScore: 10, StepPassScore: 11, FinalMaxScore: 100, FinalPassScore: 60}},
		{"zero final max", []Domain{{Name: "X", Steps: []Step{step}}}, Policy{StepMaxScore: 10, StepPassScore: 5, FinalMaxScore: 0, FinalPassScore: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.domains, tt.policy)
			var invalid *InvalidCatalogError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	domains := []Domain{{Name: "X", Steps: []Step{{ID: "a", Title: "A"}}}}
	c, err := New(domains, DefaultPolicy())
	require.NoError(t, err)

	domains[0].Steps[0].ID = "changed"

	ids, err := c.StepIDs("X")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew(nil, DefaultPolicy()) })
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{
		"policy": {"step_max_score": 10, "step_pass_score": 7, "final_max_score": 50, "final_pass_score": 30},
		"domains": [
			{"name": "Go", "steps": [
				{"id": "syntax", "title": "Syntax"},
				{"id": "concurrency", "title": "Concurrency", "max_score": 10}
			]}
		]
	}`)

	c, err := Parse(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, c.Domains())
	assert.Equal(t, 7, c.Policy().StepPassScore)

	steps, err := c.StepsFor("Go")
	require.NoError(t, err)
	assert.Equal(t, 10, steps[0].MaxScore)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
domains:
  - name: Go
    steps:
      - id: syntax
        title: Syntax
        description: Types and control flow
      - id: testing
        title: Testing
`)

	c, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), c.Policy())

	i, err := c.StepIndex("Go", "testing")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestParse_SchemaViolation(t *testing.T) {
	_, err := Parse([]byte(`{"domains": [{"name": "Go", "steps": [{"id": "x"}]}]}`), FormatJSON)

	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("domains: [\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`{}`), Format("toml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	err := os.WriteFile(path, []byte("domains:\n  - name: Go\n    steps:\n      - id: syntax\n        title: Syntax\n"), 0644)
	require.NoError(t, err)

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, c.HasDomain("Go"))
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("catalog.txt")
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("a/b/catalog.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFromPath("catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
}
