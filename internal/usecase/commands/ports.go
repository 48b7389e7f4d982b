package commands

import (
	"context"

	"github.com/google/uuid"
)

// Config is the immutable per-run triage configuration. It is loaded once
// at the start of a pass from the triage_settings table and never mutated.
type Config struct {
	// Enabled mirrors the platform-wide course-requests feature flag.
	Enabled bool
	// MaxCourses is the auto-approval quota; 0 disables the whole feature.
	MaxCourses int
	// Reject switches denials from leave-pending to reject-with-reason.
	Reject bool
	// MaxReqToReject is the number of over-quota requests tolerated per
	// user before forced rejection; 0 or 1 disables the counting and
	// rejects immediately.
	MaxReqToReject int

	UseTemplate    bool
	CourseTemplate uuid.UUID

	// ApproveMessage is the notification body template; placeholders are
	// substituted by msgfmt.
	ApproveMessage string

	// CourseRole is granted to the requester in the provisioned course.
	CourseRole uuid.UUID
	// SystemRole is an optional platform-wide role for approved requesters.
	SystemRole uuid.UUID

	// StrictDatePatch escalates a failed start-date patch after a
	// successful duplication to post-processing-failed instead of the
	// default best-effort behaviour.
	StrictDatePatch bool
}

func (c Config) TemplateConfigured() bool {
	return c.UseTemplate && c.CourseTemplate != uuid.Nil
}

type SettingsRepository interface {
	Load(ctx context.Context) (Config, error)
}

// DuplicateOptions is the fixed option set passed to the platform's
// duplication primitive: structure is copied, prior enrolments are not.
type DuplicateOptions struct {
	Blocks     bool
	Activities bool
	Filters    bool
	Users      bool
}

func DefaultDuplicateOptions() DuplicateOptions {
	return DuplicateOptions{Blocks: true, Activities: true, Filters: true, Users: false}
}

type DuplicateResult struct {
	CourseID uuid.UUID
	JobID    uuid.UUID
}

// CoursePlatform is the host platform's course API. Duplication is
// asynchronous: Duplicate returns the new course id plus a job handle, and
// AwaitDuplication blocks until the job completes or the poll budget runs
// out.
type CoursePlatform interface {
	Duplicate(ctx context.Context, templateID uuid.UUID, fullName, shortName string, categoryID uuid.UUID, visible bool, opts DuplicateOptions) (*DuplicateResult, error)
	AwaitDuplication(ctx context.Context, jobID uuid.UUID) error
	ApproveRequest(ctx context.Context, requestID uuid.UUID) error
	CourseURL(courseID uuid.UUID) string
}
