package web

import (
	"fmt"
	"strconv"

	"interview-tayari/internal/delivery/http/request"
	"interview-tayari/internal/domain"

	"github.com/gin-gonic/gin"
)

// applyForm copies the posted fields onto draft. Files replace the stored
// ones only when a new file was picked, so a failed submit keeps them.
func applyForm(c *gin.Context, draft *domain.Draft) error {
	draft.UpdateCompany(domain.CompanyDetails{
		CompanyName: c.PostForm("company_name"),
		Experience:  c.PostForm("experience"),
		CTC:         c.PostForm("ctc"),
		Country:     c.PostForm("country"),
		DisplayName: c.PostForm("display_name"),
	})

	verification, err := request.Attachment(c, "verification")
	if err != nil {
		return err
	}
	if verification != nil {
		draft.AttachVerification(verification)
	}

	for i := range draft.Questions {
		if _, posted := c.GetPostForm(fmt.Sprintf("q_text_%d", i)); !posted {
			continue
		}
		q := draft.Questions[i]
		q.Text = c.PostForm(fmt.Sprintf("q_text_%d", i))
		q.Type = domain.QuestionType(c.PostForm(fmt.Sprintf("q_type_%d", i)))
		q.Difficulty = domain.Difficulty(c.PostForm(fmt.Sprintf("q_difficulty_%d", i)))

		file, err := request.Attachment(c, fmt.Sprintf("q_file_%d", i))
		if err != nil {
			return err
		}
		if file != nil {
			q.File = file
		}
		if err := draft.SetQuestion(i, q); err != nil {
			return err
		}
	}
	return nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
