package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/model"
)

func TestLoadFileJSON(t *testing.T) {
	s, err := LoadFile("testdata/survey.json")
	require.NoError(t, err)

	require.Len(t, s.Blocks(), 2)
	assert.Equal(t, 3, s.QuestionCount())

	q := s.FindQuestion("q_detail")
	require.NotNil(t, q)
	assert.Equal(t, model.QuestionTypeText, q.Type)
	assert.Equal(t, 1, s.BlockOf("q_detail"))
	assert.Nil(t, s.FindQuestion("missing"))
	assert.Equal(t, -1, s.BlockOf("missing"))

	assert.Equal(t, map[string]struct{}{"q_detail": {}}, s.AllBranchTargets())
	assert.True(t, s.IsBranchTarget("q_detail"))
	assert.False(t, s.IsBranchTarget("q_pref"))
}

func TestLoadFileYAML(t *testing.T) {
	s, err := LoadFile("testdata/survey.yaml")
	require.NoError(t, err)

	require.Len(t, s.Blocks(), 1)
	assert.True(t, s.Blocks()[0].RandomizeQuestions)
	q := s.FindQuestion("q_pref")
	require.NotNil(t, q)
	require.Len(t, q.Branches, 1)
	assert.Equal(t, "yes", q.Branches[0].When.Equals)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/nope.json")
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestAllBranchTargetsIsACopy(t *testing.T) {
	s, err := LoadFile("testdata/survey.json")
	require.NoError(t, err)

	targets := s.AllBranchTargets()
	delete(targets, "q_detail")
	assert.True(t, s.IsBranchTarget("q_detail"))
}

func TestLoad(t *testing.T) {
	doc := `{"blocks":[{"title":"B","questions":[{"id":"q1","type":"consent","label":{"en":"OK?"}}]}]}`
	s, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.NotNil(t, s.FindQuestion("q1"))
	assert.Same(t, s.Definition(), s.Definition())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"invalid json", `{`, "invalid JSON"},
		{"missing blocks", `{}`, "missing blocks"},
		{"no blocks", `{"blocks":[]}`, "no blocks"},
		{"block title", `{"blocks":[{"questions":[{"id":"a","type":"text","label":{"en":"A"}}]}]}`, "missing title"},
		{"no questions", `{"blocks":[{"title":"B","questions":[]}]}`, "no questions"},
		{"missing id", `{"blocks":[{"title":"B","questions":[{"type":"text","label":{"en":"A"}}]}]}`, "missing id"},
		{
			"duplicate id",
			`{"blocks":[{"title":"B","questions":[{"id":"a","type":"text","label":{"en":"A"}}]},
			{"title":"C","questions":[{"id":"a","type":"text","label":{"en":"A"}}]}]}`,
			`duplicate question id "a"`,
		},
		{"unknown type", `{"blocks":[{"title":"B","questions":[{"id":"a","type":"slider","label":{"en":"A"}}]}]}`, "unknown type"},
		{"missing label", `{"blocks":[{"title":"B","questions":[{"id":"a","type":"text"}]}]}`, "missing label"},
		{"single without options", `{"blocks":[{"title":"B","questions":[{"id":"a","type":"single","label":{"en":"A"}}]}]}`, "needs options"},
		{
			"matrix without columns",
			`{"blocks":[{"title":"B","questions":[{"id":"a","type":"matrix","label":{"en":"A"},"rows":[{"value":"r","label":{"en":"R"}}]}]}]}`,
			"needs rows and columns",
		},
		{
			"duplicate option",
			`{"blocks":[{"title":"B","questions":[{"id":"a","type":"multiple","label":{"en":"A"},
			"options":[{"value":"x","label":{"en":"X"}},{"value":"x","label":{"en":"X"}}]}]}]}`,
			`duplicate option value "x"`,
		},
		{
			"branch on multiple",
			`{"blocks":[{"title":"B","questions":[{"id":"a","type":"multiple","label":{"en":"A"},
			"options":[{"value":"x","label":{"en":"X"}}],"branches":[{"when":{"equals":"x"},"goto":"b"}]}]}]}`,
			"only single questions may branch",
		},
		{
			"ambiguous branch",
			`{"blocks":[{"title":"B","questions":[{"id":"a","type":"single","label":{"en":"A"},
			"options":[{"value":"x","label":{"en":"X"}}],
			"branches":[{"when":{"equals":"x"},"goto":"b"},{"when":{"equals":"x"},"goto":"c"}]}]}]}`,
			"more than one branch",
		},
		{
			"self branch",
			`{"blocks":[{"title":"B","questions":[{"id":"a","type":"single","label":{"en":"A"},
			"options":[{"value":"x","label":{"en":"X"}}],"branches":[{"when":{"equals":"x"},"goto":"a"}]}]}]}`,
			"branch to itself",
		},
		{
			"branch cycle",
			`{"blocks":[{"title":"B","questions":[
			{"id":"a","type":"single","label":{"en":"A"},"options":[{"value":"x","label":{"en":"X"}}],"branches":[{"when":{"equals":"x"},"goto":"b"}]},
			{"id":"b","type":"single","label":{"en":"B"},"options":[{"value":"x","label":{"en":"X"}}],"branches":[{"when":{"equals":"x"},"goto":"a"}]}]}]}`,
			"branch cycle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var loadErr *SchemaLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseAllowsUnknownGoto(t *testing.T) {
	doc := `{"blocks":[{"title":"B","questions":[{"id":"a","type":"single","label":{"en":"A"},
		"options":[{"value":"x","label":{"en":"X"}}],"branches":[{"when":{"equals":"x"},"goto":"later"}]}]}]}`
	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.True(t, s.IsBranchTarget("later"))
	assert.Nil(t, s.FindQuestion("later"))
}

func TestNewNil(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
