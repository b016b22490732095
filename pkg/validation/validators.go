package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Letters, digits, spaces and common punctuation: . ' - / & ( ) ,
var nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

var (
	questionTypes = map[string]bool{
		"Problem Solving": true,
		"System Design":   true,
		"Data Structures": true,
		"Algorithms":      true,
		"Behavioral":      true,
	}
	difficulties = map[string]bool{"Easy": true, "Medium": true, "Hard": true}
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("question_type", QuestionType)
	_ = v.RegisterValidation("difficulty", Difficulty)
}

// ValidName accepts empty strings, use required to forbid them.
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

// NoEmoji rejects supplementary-plane runes and symbol categories.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

func QuestionType(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || questionTypes[val]
}

func Difficulty(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || difficulties[val]
}
