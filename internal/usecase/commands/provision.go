package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"course-triage/internal/domain/course"
	"course-triage/internal/domain/request"
	"course-triage/internal/pkg/clock"
	"course-triage/internal/pkg/errs"
	"course-triage/internal/pkg/msgfmt"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidTemplateInput  = errs.New("invalid template input")
	ErrDuplicationFailed     = errs.New("course duplication failed")
	ErrPostProcessingFailed  = errs.New("course post-processing failed")
	ErrTemplateNormalization = errs.New("template section normalization failed")
)

type ProvisionStatus string

const (
	ProvisionSucceeded            ProvisionStatus = "success"
	ProvisionInvalidInput         ProvisionStatus = "invalid-input"
	ProvisionDuplicationFailed    ProvisionStatus = "duplication-failed"
	ProvisionPostProcessingFailed ProvisionStatus = "post-processing-failed"
)

// ProvisionResult is always fully populated: either a provisioned course id
// or a failure status with detail. Nothing is thrown past the provisioner.
type ProvisionResult struct {
	Status   ProvisionStatus
	CourseID uuid.UUID
	Detail   string
}

func (r ProvisionResult) Succeeded() bool {
	return r.Status == ProvisionSucceeded
}

type Provisioner interface {
	FromTemplate(ctx context.Context, req *request.CourseRequest, cfg Config) ProvisionResult
}

type templateProvisioner struct {
	uow      shared.UnitOfWork
	platform CoursePlatform
	clock    clock.Clock
	logger   *slog.Logger
}

func NewTemplateProvisioner(uow shared.UnitOfWork, platform CoursePlatform, clk clock.Clock, logger *slog.Logger) Provisioner {
	return &templateProvisioner{
		uow:      uow,
		platform: platform,
		clock:    clk,
		logger:   logger,
	}
}

// FromTemplate provisions the requested course by duplicating the configured
// template. Each step is guarded; the first failure aborts the remaining
// steps and reports a structured result. The duplicated course is NOT rolled
// back on post-processing failure (matching the platform's approval
// semantics); the request row stays pending in that case so the next pass
// can retry.
func (p *templateProvisioner) FromTemplate(ctx context.Context, req *request.CourseRequest, cfg Config) ProvisionResult {
	input, err := req.TemplateInputFor(cfg.CourseTemplate)
	if err != nil {
		return p.fail(req, ProvisionInvalidInput, uuid.Nil, errs.Mark(err, ErrInvalidTemplateInput))
	}

	if err := p.normalizeTemplateSections(ctx, input.TemplateID); err != nil {
		return p.fail(req, ProvisionDuplicationFailed, uuid.Nil, errs.Mark(err, ErrTemplateNormalization))
	}

	dup, err := p.platform.Duplicate(ctx, input.TemplateID, input.FullName, input.ShortName, input.CategoryID, true, DefaultDuplicateOptions())
	if err != nil {
		return p.fail(req, ProvisionDuplicationFailed, uuid.Nil, errs.Mark(err, ErrDuplicationFailed))
	}

	// Duplication runs as an asynchronous platform job; wait for it to
	// finish instead of sleeping a fixed interval.
	if err := p.platform.AwaitDuplication(ctx, dup.JobID); err != nil {
		return p.fail(req, ProvisionDuplicationFailed, dup.CourseID, errs.Mark(err, ErrDuplicationFailed))
	}

	if err := p.patchStartDate(ctx, dup.CourseID); err != nil {
		if cfg.StrictDatePatch {
			return p.fail(req, ProvisionPostProcessingFailed, dup.CourseID, errs.Mark(err, ErrPostProcessingFailed))
		}
		// Best-effort by default: the duplicate stays as it is.
		p.logger.Warn("start date patch failed, continuing",
			"request_id", req.ID(),
			"course_id", dup.CourseID,
			"error", err.Error())
	}

	if err := p.completeProvisioning(ctx, req, cfg, dup.CourseID); err != nil {
		return p.fail(req, ProvisionPostProcessingFailed, dup.CourseID, errs.Mark(err, ErrPostProcessingFailed))
	}

	p.logger.Info("course provisioned from template",
		"status", string(ProvisionSucceeded),
		"request_id", req.ID(),
		"course_id", dup.CourseID)

	return ProvisionResult{Status: ProvisionSucceeded, CourseID: dup.CourseID}
}

// normalizeTemplateSections clears section labels that would sanitize to
// nothing, so the duplicate does not inherit literal raw-HTML artifacts.
func (p *templateProvisioner) normalizeTemplateSections(ctx context.Context, templateID uuid.UUID) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sections, err := tx.Sections().ListByCourse(ctx, tx.DB(), templateID)
		if err != nil {
			return err
		}

		for _, section := range sections {
			if !course.SectionLabelNeedsClearing(section.Name) {
				continue
			}
			if err := tx.Sections().ClearName(ctx, tx.DB(), section.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *templateProvisioner) patchStartDate(ctx context.Context, courseID uuid.UUID) error {
	startDate := clock.Midnight(p.clock.Now())
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Courses().SetStartDate(ctx, tx.DB(), courseID, startDate)
	})
}

// completeProvisioning enrols the requester, settles the request row, and
// queues the success notification in one transaction: either the request is
// fully consumed or it stays pending for the next pass.
func (p *templateProvisioner) completeProvisioning(ctx context.Context, req *request.CourseRequest, cfg Config, courseID uuid.UUID) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		requester, err := tx.Users().FindActive(ctx, tx.DB(), req.RequesterID())
		if err != nil {
			return err
		}

		if err := tx.Enrolments().EnsureManualMethod(ctx, tx.DB(), courseID); err != nil {
			return err
		}
		if err := tx.Enrolments().Enrol(ctx, tx.DB(), courseID, requester.ID); err != nil {
			return err
		}

		if cfg.CourseRole != uuid.Nil {
			hasRole, err := tx.Enrolments().HasRole(ctx, tx.DB(), courseID, requester.ID, cfg.CourseRole)
			if err != nil {
				return err
			}
			if !hasRole {
				if err := tx.Enrolments().AssignRole(ctx, tx.DB(), courseID, requester.ID, cfg.CourseRole); err != nil {
					return err
				}
			}
		}

		if cfg.SystemRole != uuid.Nil {
			if err := tx.Enrolments().AssignSystemRole(ctx, tx.DB(), requester.ID, cfg.SystemRole); err != nil {
				return err
			}
		}

		if err := tx.Requests().Delete(ctx, tx.DB(), req.ID()); err != nil {
			return err
		}

		return p.queueApprovalNotification(ctx, tx, req, cfg, requester, courseID)
	})
}

func (p *templateProvisioner) queueApprovalNotification(ctx context.Context, tx shared.Tx, req *request.CourseRequest, cfg Config, requester *shared.RequesterSnapshot, courseID uuid.UUID) error {
	body := msgfmt.Render(cfg.ApproveMessage, msgfmt.Vars{
		CourseName: req.FullName(),
		CourseURL:  p.platform.CourseURL(courseID),
		Username:   requester.Username,
		FirstName:  requester.FirstName,
		LastName:   requester.LastName,
	})

	payload, err := json.Marshal(map[string]any{
		"user_id":     requester.ID,
		"course_id":   courseID,
		"course_name": req.FullName(),
		"course_url":  p.platform.CourseURL(courseID),
		"body":        body,
	})
	if err != nil {
		return err
	}

	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "course_request_approved", payload, p.clock.Now())
}

// fail logs one machine-parsable line per failure before returning; this is
// the provisioner's only externally visible failure signal.
func (p *templateProvisioner) fail(req *request.CourseRequest, status ProvisionStatus, courseID uuid.UUID, err error) ProvisionResult {
	p.logger.Error("course provisioning failed",
		"status", string(status),
		"request_id", req.ID(),
		"course_id", courseID,
		"error", err.Error())

	return ProvisionResult{Status: status, CourseID: courseID, Detail: err.Error()}
}
