package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"course-triage/internal/domain/request"
	"course-triage/internal/pkg/clock"
	"course-triage/internal/pkg/errs"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSettingsLoad = errs.New("failed to load triage settings")
	ErrRequestScan  = errs.New("failed to scan pending requests")
)

// RunReport is the outcome of one triage pass. Lines carry the operational
// trace in the platform's "... - <verb>" format; tooling parses them.
// Outcomes records the decision state each processed request ended in;
// requests left untouched by a failure stay PENDING.
type RunReport struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Approved   int
	Rejected   int
	Skipped    int
	Failed     int
	Outcomes   map[uuid.UUID]request.State
	Lines      []string
}

type TriageCommands interface {
	// RunPass executes one approval pass over all pending course requests.
	RunPass(ctx context.Context) (*RunReport, error)
}

type triageUseCaseImpl struct {
	settings    SettingsRepository
	uow         shared.UnitOfWork
	quota       *QuotaEvaluator
	provisioner Provisioner
	platform    CoursePlatform
	clock       clock.Clock
	logger      *slog.Logger
}

func NewTriageCommands(
	settings SettingsRepository,
	uow shared.UnitOfWork,
	quota *QuotaEvaluator,
	provisioner Provisioner,
	platform CoursePlatform,
	clk clock.Clock,
	logger *slog.Logger,
) TriageCommands {
	return &triageUseCaseImpl{
		settings:    settings,
		uow:         uow,
		quota:       quota,
		provisioner: provisioner,
		platform:    platform,
		clock:       clk,
		logger:      logger,
	}
}

// runTrace mirrors every trace line to the structured log and collects it
// for the run report.
type runTrace struct {
	logger *slog.Logger
	runID  uuid.UUID
	lines  []string
}

func (t *runTrace) addf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	t.lines = append(t.lines, line)
	t.logger.Info(line, "run_id", t.runID)
}

// RunPass processes pending requests strictly one at a time, in
// (requester, submission) order: the rejection tally depends on same-user
// requests arriving consecutively. Per-request failures are traced and the
// pass moves on; only a failure to load settings or scan the queue aborts
// the run.
func (uc *triageUseCaseImpl) RunPass(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.New(),
		StartedAt: uc.clock.Now(),
		Outcomes:  make(map[uuid.UUID]request.State),
	}
	trace := &runTrace{logger: uc.logger, runID: report.RunID}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrSettingsLoad)
	}

	if !cfg.Enabled {
		trace.addf("... Automatic approval of course requests skipped (course requests are disabled).")
		return uc.finish(report, trace), nil
	}
	if cfg.MaxCourses == 0 {
		trace.addf("... Automatic approval of course requests skipped (maxcourses set to zero).")
		return uc.finish(report, trace), nil
	}

	trace.addf("... Starting to auto-approve course requests.")

	rows, err := uc.uow.CommandReads().PendingRequests(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrRequestScan)
	}

	tracker := NewRejectionTracker()

	for _, row := range rows {
		report.Processed++
		uc.processRequest(ctx, cfg, tracker, row, report, trace)
	}

	trace.addf("... Finished auto-approving course requests.")
	return uc.finish(report, trace), nil
}

func (uc *triageUseCaseImpl) finish(report *RunReport, trace *runTrace) *RunReport {
	report.FinishedAt = uc.clock.Now()
	report.Lines = trace.lines
	return report
}

func (uc *triageUseCaseImpl) processRequest(ctx context.Context, cfg Config, tracker *RejectionTracker, row shared.RequestSnapshot, report *RunReport, trace *runTrace) {
	req, err := request.Reconstruct(row.ID, row.RequesterID, row.FullName, row.ShortName, row.CategoryID, row.Message, row.SubmittedAt)
	if err != nil {
		trace.addf("... - Leaving malformed course request %s untouched: %s", row.ID, err)
		report.Failed++
		report.Outcomes[row.ID] = request.StatePending
		return
	}

	currentCourses, err := uc.quota.CountTeacherCourses(ctx, req.RequesterID())
	if err != nil {
		trace.addf("... - Leaving course request %s untouched (teacher course count failed: %s).", req.ID(), err)
		report.Failed++
		report.Outcomes[req.ID()] = request.StatePending
		return
	}

	if currentCourses >= cfg.MaxCourses {
		uc.denyOverQuota(ctx, cfg, tracker, req, currentCourses, report, trace)
		return
	}

	collides, err := uc.uow.CommandReads().ShortnameExists(ctx, req.ShortName())
	if err != nil {
		trace.addf("... - Leaving course request %s untouched (shortname check failed: %s).", req.ID(), err)
		report.Failed++
		report.Outcomes[req.ID()] = request.StatePending
		return
	}
	if collides {
		uc.denyCollision(ctx, cfg, req, report, trace)
		return
	}

	uc.approve(ctx, cfg, req, report, trace)
}

func (uc *triageUseCaseImpl) denyOverQuota(ctx context.Context, cfg Config, tracker *RejectionTracker, req *request.CourseRequest, currentCourses int, report *RunReport, trace *runTrace) {
	trace.addf("... - Denying course request from user %s as they already manage %d existing course(s) and the limit is %d.",
		req.RequesterID(), currentCourses, cfg.MaxCourses)

	if !cfg.Reject {
		report.Skipped++
		report.Outcomes[req.ID()] = request.StateSkipped
		return
	}

	if cfg.MaxReqToReject <= 1 {
		trace.addf("...   Marking the course request as rejected and notifying the user.")
		reason := fmt.Sprintf("You already manage %d course(s) and the automatic approval limit is %d.", currentCourses, cfg.MaxCourses)
		uc.reject(ctx, req, reason, request.StateDeniedQuota, report, trace)
		return
	}

	// Duplicate tolerance: only the requests past the configured count get
	// forcibly rejected; the first MaxReqToReject stay pending.
	if tracker.ShouldForceReject(req.RequesterID(), cfg.MaxReqToReject) {
		trace.addf("...   Duplicate request limit exceeded - marking the course request as rejected and notifying the user.")
		reason := fmt.Sprintf("You already manage %d course(s) and have more than %d requests pending.", currentCourses, cfg.MaxReqToReject)
		uc.reject(ctx, req, reason, request.StateDeniedQuota, report, trace)
		return
	}

	report.Skipped++
	report.Outcomes[req.ID()] = request.StateSkipped
}

func (uc *triageUseCaseImpl) denyCollision(ctx context.Context, cfg Config, req *request.CourseRequest, report *RunReport, trace *runTrace) {
	trace.addf("... - Denying course request with shortname %s as there is another with the same shortname.", req.ShortName())

	if !cfg.Reject {
		report.Skipped++
		report.Outcomes[req.ID()] = request.StateSkipped
		return
	}

	trace.addf("...   Marking the course request as rejected and notifying the user.")
	reason := fmt.Sprintf("A course with the short name %q already exists.", req.ShortName())
	uc.reject(ctx, req, reason, request.StateDeniedCollision, report, trace)
}

func (uc *triageUseCaseImpl) approve(ctx context.Context, cfg Config, req *request.CourseRequest, report *RunReport, trace *runTrace) {
	trace.addf("... - Approving course request from user %s for the course %s.", req.RequesterID(), req.ShortName())

	if cfg.TemplateConfigured() {
		templateExists, err := uc.uow.CommandReads().CourseExists(ctx, cfg.CourseTemplate)
		if err != nil {
			trace.addf("...   Leaving course request untouched (template lookup failed: %s).", err)
			report.Failed++
			report.Outcomes[req.ID()] = request.StatePending
			return
		}

		if templateExists {
			res := uc.provisioner.FromTemplate(ctx, req, cfg)
			if res.Succeeded() {
				report.Approved++
				report.Outcomes[req.ID()] = request.StateApproved
			} else {
				trace.addf("...   Provisioning from template failed (%s): %s", res.Status, res.Detail)
				report.Failed++
				report.Outcomes[req.ID()] = request.StatePending
			}
			return
		}
		// Template course vanished since it was configured - fall back to
		// the platform's general approval.
	}

	if err := uc.platform.ApproveRequest(ctx, req.ID()); err != nil {
		trace.addf("...   Approval failed, leaving the course request untouched: %s", err)
		report.Failed++
		report.Outcomes[req.ID()] = request.StatePending
		return
	}
	report.Approved++
	report.Outcomes[req.ID()] = request.StateApproved
}

// reject settles the request row and queues the rejection notification in
// one transaction. The outcome state is recorded only once the row is
// actually settled; a failed rejection leaves the request PENDING.
func (uc *triageUseCaseImpl) reject(ctx context.Context, req *request.CourseRequest, reason string, outcome request.State, report *RunReport, trace *runTrace) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Requests().MarkRejected(ctx, tx.DB(), req.ID(), reason, uc.clock.Now()); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]any{
			"user_id":    req.RequesterID(),
			"request_id": req.ID(),
			"reason":     reason,
		})
		if err != nil {
			return err
		}
		return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "course_request_rejected", payload, uc.clock.Now())
	})
	if err != nil {
		trace.addf("...   Rejection failed, leaving the course request untouched: %s", err)
		report.Failed++
		report.Outcomes[req.ID()] = request.StatePending
		return
	}
	report.Rejected++
	report.Outcomes[req.ID()] = outcome
}
