package domain

// SecurityQuestions is the fixed catalog of security questions the clients
// offer. The stored column holds the identifier, never the display text.
var SecurityQuestions = map[string]string{
	"mascota": "Nombre de tu mascota",
	"fecha":   "Una fecha importante",
	"palabra": "Una palabra secreta",
	"numero":  "Un número secreto",
}

// QuestionText resolves a question identifier to its display text.
func QuestionText(id string) (string, bool) {
	text, ok := SecurityQuestions[id]
	return text, ok
}

// ValidQuestionID reports whether the identifier is part of the catalog.
func ValidQuestionID(id string) bool {
	_, ok := SecurityQuestions[id]
	return ok
}
