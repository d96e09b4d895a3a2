package model

// Question — вопрос, выданный в рамках одной сессии. Идентификатор порядковый,
// действует только внутри сессии (0..N-1 в порядке после перемешивания).
type Question struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswers []int    `json:"correct_answers"`
}
