package model

import "unicode"

// Фиксированные справочники предметной области: специализации, уровни
// сложности и оценочные пороги. Загружаются один раз, конфигурацией не
// переопределяются.

type Specialization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Difficulty struct {
	ID          string `json:"id"`
	Questions   int    `json:"questions"`
	TimeMinutes int    `json:"time_minutes"`
}

var specializationNames = map[string]string{
	"oupds":        "ООУПДС",
	"ispolniteli":  "Исполнители",
	"aliment":      "Алименты",
	"doznanie":     "Дознание",
	"rozyisk":      "Розыск",
	"prof":         "Профподготовка",
	"oko":          "ОКО",
	"informatika":  "Информатизация",
	"kadry":        "Кадры",
	"bezopasnost":  "Безопасность",
	"upravlenie":   "Управление",
}

var specializationOrder = []string{
	"oupds", "ispolniteli", "aliment", "doznanie", "rozyisk", "prof",
	"oko", "informatika", "kadry", "bezopasnost", "upravlenie",
}

var difficultyLevels = map[string]Difficulty{
	"резерв":       {ID: "резерв", Questions: 20, TimeMinutes: 35},
	"базовый":      {ID: "базовый", Questions: 30, TimeMinutes: 25},
	"стандартный":  {ID: "стандартный", Questions: 40, TimeMinutes: 20},
	"продвинутый":  {ID: "продвинутый", Questions: 50, TimeMinutes: 20},
}

var difficultyOrder = []string{"резерв", "базовый", "стандартный", "продвинутый"}

// SpecializationName возвращает отображаемое название специализации.
func SpecializationName(id string) (string, bool) {
	name, ok := specializationNames[id]
	return name, ok
}

// SpecializationLabel — название для выдачи наружу; неизвестный id
// возвращается как есть (исторические результаты переживают справочник).
func SpecializationLabel(id string) string {
	if name, ok := specializationNames[id]; ok {
		return name
	}
	return id
}

func Specializations() []Specialization {
	out := make([]Specialization, 0, len(specializationOrder))
	for _, id := range specializationOrder {
		out = append(out, Specialization{ID: id, Name: specializationNames[id]})
	}
	return out
}

func DifficultyByID(id string) (Difficulty, bool) {
	d, ok := difficultyLevels[id]
	return d, ok
}

func Difficulties() []Difficulty {
	out := make([]Difficulty, 0, len(difficultyOrder))
	for _, id := range difficultyOrder {
		out = append(out, difficultyLevels[id])
	}
	return out
}

// DisplayName — идентификатор уровня с заглавной первой буквой.
func (d Difficulty) DisplayName() string {
	r := []rune(d.ID)
	if len(r) == 0 {
		return d.ID
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

const (
	GradeExcellent    = "отлично"
	GradeGood         = "хорошо"
	GradeSatisfactory = "удовлетворительно"
	GradeFail         = "неудовлетворительно"
)

// GradeFor переводит процент правильных ответов в оценку. Пороги
// проверяются сверху вниз, нижняя граница каждой полосы включительна.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 80:
		return GradeExcellent
	case percentage >= 70:
		return GradeGood
	case percentage >= 60:
		return GradeSatisfactory
	default:
		return GradeFail
	}
}
