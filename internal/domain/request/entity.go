package request

import (
	"strings"
	"time"

	"course-triage/internal/domain/course"
	"course-triage/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMissingRequester = errs.New("request has no requester")
	ErrMissingCategory  = errs.New("request has no category")
)

// CourseRequest is a user-submitted application to create a course.
// Rows are created by the platform; the triage pass only rejects or
// deletes them.
type CourseRequest struct {
	id          uuid.UUID
	requesterID uuid.UUID
	fullName    course.FullName
	shortName   course.ShortName
	categoryID  uuid.UUID
	message     string
	submittedAt time.Time
}

// Reconstruct builds a CourseRequest from a stored row. The row is
// platform-owned, so validation only guards fields triage relies on; the
// name bounds come from the course value objects.
func Reconstruct(id, requesterID uuid.UUID, fullName, shortName string, categoryID uuid.UUID, message string, submittedAt time.Time) (*CourseRequest, error) {
	if requesterID == uuid.Nil {
		return nil, ErrMissingRequester
	}

	fn, err := course.NewFullName(fullName)
	if err != nil {
		return nil, err
	}
	sn, err := course.NewShortName(shortName)
	if err != nil {
		return nil, err
	}

	return &CourseRequest{
		id:          id,
		requesterID: requesterID,
		fullName:    fn,
		shortName:   sn,
		categoryID:  categoryID,
		message:     strings.TrimSpace(message),
		submittedAt: submittedAt,
	}, nil
}

func (r *CourseRequest) ID() uuid.UUID          { return r.id }
func (r *CourseRequest) RequesterID() uuid.UUID { return r.requesterID }
func (r *CourseRequest) FullName() string       { return r.fullName.String() }
func (r *CourseRequest) ShortName() string      { return r.shortName.String() }
func (r *CourseRequest) CategoryID() uuid.UUID  { return r.categoryID }
func (r *CourseRequest) Message() string        { return r.message }
func (r *CourseRequest) SubmittedAt() time.Time { return r.submittedAt }

// TemplateInput is the validated input set for template duplication.
type TemplateInput struct {
	FullName   string
	ShortName  string
	CategoryID uuid.UUID
	TemplateID uuid.UUID
}

// TemplateInputFor validates that everything duplication needs is present.
// Names are already guaranteed by Reconstruct; a zero category or template
// id aborts provisioning before any side effect.
func (r *CourseRequest) TemplateInputFor(templateID uuid.UUID) (TemplateInput, error) {
	switch {
	case r.categoryID == uuid.Nil:
		return TemplateInput{}, ErrMissingCategory
	case templateID == uuid.Nil:
		return TemplateInput{}, errs.New("template course not configured")
	}

	return TemplateInput{
		FullName:   r.fullName.String(),
		ShortName:  r.shortName.String(),
		CategoryID: r.categoryID,
		TemplateID: templateID,
	}, nil
}
