package response

import (
	"time"

	"course-triage/internal/usecase/commands"
	"course-triage/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RunReportResponse struct {
	RunID      uuid.UUID         `json:"runId"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Processed  int               `json:"processed"`
	Approved   int               `json:"approved"`
	Rejected   int               `json:"rejected"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Outcomes   map[string]string `json:"outcomes"`
	Lines      []string          `json:"lines"`
}

type CourseRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requesterId"`
	FullName    string     `json:"fullName"`
	ShortName   string     `json:"shortName"`
	CategoryID  uuid.UUID  `json:"categoryId"`
	SubmittedAt time.Time  `json:"submittedAt"`
	Status      string     `json:"status"`
	RejectedFor *string    `json:"rejectedFor,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
}

func FromRunReport(report *commands.RunReport) (*RunReportResponse, error) {
	var resp RunReportResponse
	if err := copier.Copy(&resp, report); err != nil {
		return nil, err
	}
	// copier cannot map the typed outcome keys, so flatten them by hand.
	resp.Outcomes = make(map[string]string, len(report.Outcomes))
	for id, state := range report.Outcomes {
		resp.Outcomes[id.String()] = string(state)
	}
	return &resp, nil
}

func FromRequestView(view *queries.PendingRequestView) (*CourseRequestResponse, error) {
	var resp CourseRequestResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromRequestViews(views []*queries.PendingRequestView) ([]*CourseRequestResponse, error) {
	result := make([]*CourseRequestResponse, len(views))
	for i, view := range views {
		resp, err := FromRequestView(view)
		if err != nil {
			return nil, err
		}
		result[i] = resp
	}
	return result, nil
}
