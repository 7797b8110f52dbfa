package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, key string) []string {
	t.Helper()
	qs, ok := Lookup(key)
	require.True(t, ok, "key %q missing", key)
	return qs
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"go", "rust", "c++", "java"}, Tokenize("Go; Rust | C++\nJava"))
	assert.Equal(t, []string{"python", ""}, Tokenize("Python,"))
	assert.Equal(t, []string{""}, Tokenize(""))
}

func TestSelect_InputOrderPreserved(t *testing.T) {
	py := mustLookup(t, "python")
	aws := mustLookup(t, "aws")

	got := Select("Python, AWS")
	require.Len(t, got, 4)
	assert.Equal(t, []string{py[0], py[1], aws[0], aws[1]}, got)

	for i := 0; i < 10; i++ {
		assert.Equal(t, got, Select("Python, AWS"))
	}
}

func TestSelect_PythonSQL(t *testing.T) {
	py := mustLookup(t, "python")
	sql := mustLookup(t, "sql")

	assert.Equal(t, []string{py[0], py[1], sql[0], sql[1]}, Select("Python, SQL"))
}

func TestSelect_FallbackInterpolatesFirstToken(t *testing.T) {
	got := Select("COBOL")
	require.Len(t, got, 5)
	assert.Equal(t, "Can you explain your experience with cobol?", got[0])
	assert.Equal(t, "How do you approach debugging and troubleshooting in your projects?", got[4])
}

func TestSelect_PartialMatch(t *testing.T) {
	aws := mustLookup(t, "aws")
	sql := mustLookup(t, "sql")
	r := mustLookup(t, "r")

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"token contains key", "AWS Lambda", []string{aws[0], aws[1]}},
		{"key contains token", "sq", []string{sql[0], sql[1]}},
		// "r" стоит в таблице раньше остальных, поэтому забирает любой токен с буквой r
		{"first key in table order wins", "Rust", []string{r[0], r[1]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.input))
		})
	}
}

func TestSelect_DataScienceSupplement(t *testing.T) {
	pandas := mustLookup(t, "pandas")
	ds := mustLookup(t, dataScienceKey)
	ml := mustLookup(t, machineLearningKey)

	got := Select("pandas, data analysis")
	assert.Equal(t, []string{pandas[0], pandas[1], ds[0], ds[1], ml[0]}, got)

	// сигнальные слова ищутся подстрокой
	assert.Equal(t, []string{ds[0], ds[1], ml[0]}, Select("Tailwind"))
}

func TestSelect_NoDeduplication(t *testing.T) {
	py := mustLookup(t, "python")

	assert.Equal(t, []string{py[0], py[1], py[0], py[1]}, Select("Python, python"))
	// пустой токен совпадает с первым ключом таблицы
	assert.Equal(t, []string{py[0], py[1], py[0], py[1]}, Select("Python,"))
}

func TestSelect_TruncatesToMax(t *testing.T) {
	py := mustLookup(t, "python")
	java := mustLookup(t, "java")
	react := mustLookup(t, "react")

	got := Select("Python, Java, React")
	require.Len(t, got, MaxQuestions)
	assert.Equal(t, []string{py[0], py[1], java[0], java[1], react[0]}, got)
}

func TestTemplates_Order(t *testing.T) {
	var keys []string
	for _, tpl := range Templates() {
		keys = append(keys, tpl.Key)
	}
	assert.Equal(t, []string{
		"python", "r", "java", "javascript", "react", "django", "sql", "mysql",
		"postgresql", "aws", "pandas", "numpy", "machine learning", "data science",
	}, keys)
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	tpls := Templates()
	tpls[0].Questions[0] = "mutated"

	py := mustLookup(t, "python")
	assert.NotEqual(t, "mutated", py[0])
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "templates: [unclosed"},
		{"empty", "templates: []"},
		{"missing key", "templates:\n  - questions: [\"q\"]"},
		{"duplicate key", "templates:\n  - key: go\n    questions: [\"a\"]\n  - key: go\n    questions: [\"b\"]"},
		{"no questions", "templates:\n  - key: go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTable([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
