package domain

// Difficulty buckets questions for match setup
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TestCase represents a single input/expected-output pair for a question.
// Read-only at match time.
type TestCase struct {
	Input       string `json:"input"`
	Expected    string `json:"expected"`
	Description string `json:"description"`
}

// Variant is the language-specific form of a question
type Variant struct {
	BuggyCode string     `json:"buggy_code"`
	FixedCode string     `json:"fixed_code"`
	TestCases []TestCase `json:"test_cases"`
}

// Question represents a bug hunt question with all language variants
type Question struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Difficulty  Difficulty           `json:"difficulty"`
	TimeLimit   int                  `json:"time_limit"`
	Languages   map[Language]Variant `json:"languages"`
	Hints       []string             `json:"hints"`
}

// VariantFor returns the language-specific variant of the question
func (q *Question) VariantFor(lang Language) (Variant, bool) {
	v, ok := q.Languages[lang]
	return v, ok
}
