package domain_test

import (
	"testing"

	"interview-tayari/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenshot() *domain.Attachment {
	return &domain.Attachment{Filename: "offer.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func tagged(text string) domain.QuestionDraft {
	return domain.QuestionDraft{Text: text, Type: "Algorithms", Difficulty: domain.DifficultyMedium}
}

func validDraft() *domain.Draft {
	d := domain.NewDraft()
	d.UpdateCompany(domain.CompanyDetails{CompanyName: "Google", Experience: "3", CTC: "20", Country: "India"})
	d.AttachVerification(screenshot())
	d.Questions = []domain.QuestionDraft{tagged("Reverse a list"), tagged("Design a cache"), tagged("Tell me about a conflict")}
	return d
}

func TestDraftValidate(t *testing.T) {
	t.Run("Should require every company field", func(t *testing.T) {
		blanks := []func(*domain.Draft){
			func(d *domain.Draft) { d.CompanyName = "" },
			func(d *domain.Draft) { d.Experience = "" },
			func(d *domain.Draft) { d.CTC = "  " },
			func(d *domain.Draft) { d.Country = "" },
		}
		for _, blank := range blanks {
			d := validDraft()
			blank(d)
			assert.ErrorIs(t, d.Validate(), domain.ErrFillCompanyDetails)
		}
	})

	t.Run("Should report company details before a missing file", func(t *testing.T) {
		d := domain.NewDraft()
		assert.ErrorIs(t, d.Validate(), domain.ErrFillCompanyDetails)
	})

	t.Run("Should require a verification file", func(t *testing.T) {
		d := validDraft()
		d.AttachVerification(nil)
		assert.ErrorIs(t, d.Validate(), domain.ErrVerificationMissing)

		d.AttachVerification(&domain.Attachment{Filename: "empty.png"})
		assert.ErrorIs(t, d.Validate(), domain.ErrVerificationMissing)
	})

	t.Run("Should fail with two tagged questions", func(t *testing.T) {
		d := validDraft()
		d.Questions = d.Questions[:2]
		assert.ErrorIs(t, d.Validate(), domain.ErrNotEnoughQuestions)
	})

	t.Run("Should ignore blank questions when counting", func(t *testing.T) {
		d := validDraft()
		d.Questions = append(d.Questions[:2], domain.QuestionDraft{Text: "   ", Type: "Algorithms", Difficulty: domain.DifficultyEasy})
		assert.ErrorIs(t, d.Validate(), domain.ErrNotEnoughQuestions)
	})

	t.Run("Should fail when a filled question is untagged", func(t *testing.T) {
		d := validDraft()
		d.Questions = append(d.Questions, domain.QuestionDraft{Text: "Why us?", Type: "Behavioral"})
		assert.ErrorIs(t, d.Validate(), domain.ErrNotEnoughQuestions)
	})

	t.Run("Should fail when a tag is outside the known values", func(t *testing.T) {
		for _, q := range []domain.QuestionDraft{
			{Text: "Design a queue", Type: "Algorithms", Difficulty: "Extreme"},
			{Text: "Capital of France", Type: "Trivia", Difficulty: domain.DifficultyEasy},
			{Text: "Why us?", Type: "behavioral", Difficulty: domain.DifficultyEasy},
		} {
			d := validDraft()
			d.Questions[2] = q
			assert.ErrorIs(t, d.Validate(), domain.ErrNotEnoughQuestions, q.Text)
		}
	})

	t.Run("Should pass with three tagged questions", func(t *testing.T) {
		assert.NoError(t, validDraft().Validate())
	})

	t.Run("Should give the same failure on repeated attempts", func(t *testing.T) {
		d := validDraft()
		d.Country = ""
		first := d.Validate()
		second := d.Validate()
		assert.Equal(t, first, second)
	})
}

func TestDraftQuestions(t *testing.T) {
	t.Run("Should refuse to remove the last question", func(t *testing.T) {
		d := domain.NewDraft()
		assert.ErrorIs(t, d.RemoveQuestion(0), domain.ErrLastQuestion)
		assert.Len(t, d.Questions, 1)
	})

	t.Run("Should remove by index keeping order", func(t *testing.T) {
		d := validDraft()
		require.NoError(t, d.RemoveQuestion(1))
		assert.Equal(t, "Reverse a list", d.Questions[0].Text)
		assert.Equal(t, "Tell me about a conflict", d.Questions[1].Text)
	})

	t.Run("Should reject out of range indexes", func(t *testing.T) {
		d := domain.NewDraft()
		assert.ErrorIs(t, d.SetQuestion(3, tagged("x")), domain.ErrQuestionIndex)
		d.AddQuestion()
		assert.ErrorIs(t, d.RemoveQuestion(-1), domain.ErrQuestionIndex)
		assert.NoError(t, d.SetQuestion(1, tagged("x")))
	})
}

func TestSectionToggle(t *testing.T) {
	d := domain.NewDraft()
	assert.Equal(t, domain.SectionCompany, d.Active)

	d.ToggleSection(domain.SectionCompany)
	assert.Equal(t, domain.SectionNone, d.Active)

	d.ToggleSection(domain.SectionQuestions)
	assert.Equal(t, domain.SectionQuestions, d.Active)

	d.ToggleSection(domain.SectionVerification)
	assert.Equal(t, domain.SectionVerification, d.Active)

	assert.Equal(t, domain.SectionVerification, domain.ParseSection(d.Active.String()))
	assert.Equal(t, domain.SectionNone, domain.ParseSection("bogus"))
}

func TestDraftRecord(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "asha@example.com"}

	t.Run("Should keep filled questions in order", func(t *testing.T) {
		d := validDraft()
		d.Questions = []domain.QuestionDraft{
			tagged("first"),
			{Text: ""},
			{Text: "second", Type: "System Design", Difficulty: domain.DifficultyHard},
			{Text: "  "},
			tagged("third"),
		}

		rec := d.Record(user)
		assert.Equal(t, []string{"first", "second", "third"}, rec.Questions)
		require.NotNil(t, rec.Difficulty)
		assert.Equal(t, domain.DifficultyHard, *rec.Difficulty)
	})

	t.Run("Should bucket experience and default the name", func(t *testing.T) {
		rec := validDraft().Record(user)
		assert.Equal(t, "asha", rec.Name)
		assert.Equal(t, "user-1", rec.UserID)
		assert.Equal(t, "3-5", *rec.ExperienceYears)
		assert.Equal(t, "20", *rec.CTC)
		assert.False(t, rec.IsVerified())
	})

	t.Run("Should prefer the display name", func(t *testing.T) {
		d := validDraft()
		d.DisplayName = "Asha K"
		assert.Equal(t, "Asha K", d.Record(user).Name)
	})
}
