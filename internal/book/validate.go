package book

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Labels are the user-facing names of the form fields.
var Labels = map[string]string{
	"title":       "Livro",
	"author":      "Autor(a)",
	"genre":       "Gênero",
	"pages":       "Páginas",
	"currentPage": "Página atual",
	"status":      "Status",
	"rating":      "Avaliação",
}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("status", validateStatus)
}

func validateStatus(fl validator.FieldLevel) bool {
	return Status(fl.Field().Int()).Valid()
}

// FieldError is a single rule violation on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated rule of a book.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields groups the messages by field name.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Validate checks b against the book rules. Text fields are checked after
// trimming. It returns nil or a *ValidationError listing every violation.
func Validate(b Book) error {
	trimmed := b
	trimmed.Title = strings.TrimSpace(b.Title)
	trimmed.Author = strings.TrimSpace(b.Author)
	trimmed.Genre = strings.TrimSpace(b.Genre)

	out := &ValidationError{}
	if err := validate.Struct(trimmed); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			out.Errors = append(out.Errors, FieldError{
				Field:   fe.Field(),
				Message: message(fe),
			})
		}
	}

	if _, bad := out.Fields()["currentPage"]; !bad {
		if msg := statusPageMessage(trimmed); msg != "" {
			out.Errors = append(out.Errors, FieldError{Field: "currentPage", Message: msg})
		}
	}

	if len(out.Errors) == 0 {
		return nil
	}
	return out
}

// statusPageMessage reports a current page that contradicts the status.
// Normalize never produces one.
func statusPageMessage(b Book) string {
	switch {
	case b.Status == StatusToRead && b.CurrentPage != 0:
		return "Um livro para ler não pode ter Página atual maior que zero."
	case b.Status == StatusFinished && b.Pages > 0 && b.CurrentPage != b.Pages:
		return "Um livro finalizado deve estar na última página."
	}
	return ""
}

func message(fe validator.FieldError) string {
	label := Labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", label)
	case "gt":
		return fmt.Sprintf("O campo %s deve ser maior que zero.", label)
	case "ltefield":
		return "A Página atual não pode ser maior que o total de páginas."
	case "gte":
		return fmt.Sprintf("O campo %s não pode ser negativo.", label)
	case "min", "max":
		return fmt.Sprintf("O campo %s deve estar entre 0 e 5.", label)
	case "status":
		return "Status inválido."
	default:
		return fmt.Sprintf("O campo %s é inválido.", label)
	}
}
