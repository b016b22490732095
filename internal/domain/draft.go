package domain

import (
	"context"
	"strings"
)

// Section is the expanded part of the submission form. At most one section
// is open at a time.
type Section int

const (
	SectionNone Section = iota
	SectionCompany
	SectionVerification
	SectionQuestions
)

// Toggle closes s when target is already open and opens target otherwise.
func (s Section) Toggle(target Section) Section {
	if s == target {
		return SectionNone
	}
	return target
}

func (s Section) String() string {
	switch s {
	case SectionCompany:
		return "company"
	case SectionVerification:
		return "verification"
	case SectionQuestions:
		return "questions"
	}
	return "none"
}

func ParseSection(v string) Section {
	switch v {
	case "company":
		return SectionCompany
	case "verification":
		return SectionVerification
	case "questions":
		return SectionQuestions
	}
	return SectionNone
}

// Attachment is a file picked in the form. Data stays in memory until submit.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

type QuestionDraft struct {
	Text       string       `json:"text"`
	File       *Attachment  `json:"file,omitempty"`
	Type       QuestionType `json:"type"`
	Difficulty Difficulty   `json:"difficulty"`
}

func (q QuestionDraft) blank() bool {
	return strings.TrimSpace(q.Text) == ""
}

// tagged reports whether the question carries a known type and difficulty.
func (q QuestionDraft) tagged() bool {
	return q.Type.Valid() && q.Difficulty.Valid()
}

type CompanyDetails struct {
	CompanyName string `json:"company_name" form:"company_name"`
	Experience  string `json:"experience" form:"experience"`
	CTC         string `json:"ctc" form:"ctc"`
	Country     string `json:"country" form:"country"`
	DisplayName string `json:"display_name" form:"display_name"`
}

// Draft is the state of one open submission form.
type Draft struct {
	CompanyDetails
	Verification *Attachment     `json:"verification,omitempty"`
	Questions    []QuestionDraft `json:"questions"`
	Active       Section         `json:"active"`
}

// NewDraft returns an empty form with the company section open and a single
// blank question.
func NewDraft() *Draft {
	return &Draft{
		Questions: []QuestionDraft{{}},
		Active:    SectionCompany,
	}
}

func (d *Draft) UpdateCompany(details CompanyDetails) {
	d.CompanyDetails = details
}

func (d *Draft) AttachVerification(file *Attachment) {
	d.Verification = file
}

func (d *Draft) AddQuestion() {
	d.Questions = append(d.Questions, QuestionDraft{})
}

func (d *Draft) RemoveQuestion(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrQuestionIndex
	}
	if len(d.Questions) == 1 {
		return ErrLastQuestion
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

func (d *Draft) SetQuestion(i int, q QuestionDraft) error {
	if i < 0 || i >= len(d.Questions) {
		return ErrQuestionIndex
	}
	d.Questions[i] = q
	return nil
}

func (d *Draft) ToggleSection(s Section) {
	d.Active = d.Active.Toggle(s)
}

// FilledQuestions returns the questions with non-blank text, in form order.
func (d *Draft) FilledQuestions() []QuestionDraft {
	filled := make([]QuestionDraft, 0, len(d.Questions))
	for _, q := range d.Questions {
		if !q.blank() {
			filled = append(filled, q)
		}
	}
	return filled
}

// Validate applies the submission rules in order and returns the first
// failure.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.CompanyName) == "" ||
		strings.TrimSpace(d.Experience) == "" ||
		strings.TrimSpace(d.CTC) == "" ||
		strings.TrimSpace(d.Country) == "" {
		return ErrFillCompanyDetails
	}

	if d.Verification == nil || d.Verification.Size() == 0 {
		return ErrVerificationMissing
	}

	filled := d.FilledQuestions()
	if len(filled) < 3 {
		return ErrNotEnoughQuestions
	}
	for _, q := range filled {
		if !q.tagged() {
			return ErrNotEnoughQuestions
		}
	}

	return nil
}

// Record builds the row to insert for user. The verification object path is
// filled in by the caller after upload.
func (d *Draft) Record(user *User) *InterviewExperience {
	filled := d.FilledQuestions()
	questions := make([]string, len(filled))
	var hardest Difficulty
	for i, q := range filled {
		questions[i] = q.Text
		if q.Difficulty.rank() > hardest.rank() {
			hardest = q.Difficulty
		}
	}

	name := strings.TrimSpace(d.DisplayName)
	if name == "" {
		name = user.DisplayName()
	}

	bucket := BucketForYears(d.Experience)
	ctc := strings.TrimSpace(d.CTC)
	verified := false

	exp := &InterviewExperience{
		Name:            name,
		Country:         strings.TrimSpace(d.Country),
		Company:         strings.TrimSpace(d.CompanyName),
		Questions:       questions,
		UserID:          user.ID,
		ExperienceYears: &bucket,
		CTC:             &ctc,
		Verified:        &verified,
	}
	if hardest.Valid() {
		exp.Difficulty = &hardest
	}
	return exp
}

// DraftStore keeps a draft per browser session between requests.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (*Draft, error)
	Save(ctx context.Context, sessionID string, draft *Draft) error
	Delete(ctx context.Context, sessionID string) error
}
