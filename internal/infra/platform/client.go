// Package platform is the HTTP client for the host platform's course API:
// the duplication and approval primitives the triage pass delegates to.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"course-triage/internal/pkg/config"
	"course-triage/internal/pkg/errs"
	"course-triage/internal/usecase/commands"

	"github.com/google/uuid"
)

var (
	ErrUnexpectedStatus = errs.New("unexpected platform response status")
	ErrJobFailed        = errs.New("duplication job failed")
	ErrJobTimeout       = errs.New("duplication job did not complete in time")
)

type jobStatus string

const (
	jobQueued   jobStatus = "queued"
	jobRunning  jobStatus = "running"
	jobComplete jobStatus = "complete"
	jobFailed   jobStatus = "failed"
)

type Client struct {
	baseURL       string
	courseBaseURL string
	token         string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	httpClient    *http.Client
}

var _ commands.CoursePlatform = (*Client)(nil)

func NewClient(cfg config.PlatformConfig) *Client {
	courseBase := cfg.CourseBaseURL
	if courseBase == "" {
		courseBase = cfg.BaseURL
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		courseBaseURL: strings.TrimRight(courseBase, "/"),
		token:         cfg.Token,
		pollInterval:  cfg.PollInterval,
		pollTimeout:   cfg.PollTimeout,
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type duplicateRequest struct {
	FullName   string    `json:"full_name"`
	ShortName  string    `json:"short_name"`
	CategoryID uuid.UUID `json:"category_id"`
	Visible    bool      `json:"visible"`
	Options    struct {
		Blocks     bool `json:"blocks"`
		Activities bool `json:"activities"`
		Filters    bool `json:"filters"`
		Users      bool `json:"users"`
	} `json:"options"`
}

type duplicateResponse struct {
	CourseID uuid.UUID `json:"course_id"`
	JobID    uuid.UUID `json:"job_id"`
}

type jobResponse struct {
	Status jobStatus `json:"status"`
	Error  string    `json:"error"`
}

// Duplicate starts a duplication job; the new course id is allocated up
// front but the course is not usable until the job completes (see
// AwaitDuplication).
func (c *Client) Duplicate(ctx context.Context, templateID uuid.UUID, fullName, shortName string, categoryID uuid.UUID, visible bool, opts commands.DuplicateOptions) (*commands.DuplicateResult, error) {
	body := duplicateRequest{
		FullName:   fullName,
		ShortName:  shortName,
		CategoryID: categoryID,
		Visible:    visible,
	}
	body.Options.Blocks = opts.Blocks
	body.Options.Activities = opts.Activities
	body.Options.Filters = opts.Filters
	body.Options.Users = opts.Users

	var resp duplicateResponse
	url := fmt.Sprintf("%s/api/courses/%s/duplicate", c.baseURL, templateID)
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, errs.Wrap(err, "duplicate course")
	}

	return &commands.DuplicateResult{CourseID: resp.CourseID, JobID: resp.JobID}, nil
}

// AwaitDuplication polls the job until it completes. The original platform
// client slept a fixed interval here and hoped the job was done; polling
// with a budget closes that race.
func (c *Client) AwaitDuplication(ctx context.Context, jobID uuid.UUID) error {
	deadline := time.Now().Add(c.pollTimeout)
	url := fmt.Sprintf("%s/api/jobs/%s", c.baseURL, jobID)

	for {
		var job jobResponse
		if err := c.do(ctx, http.MethodGet, url, nil, &job); err != nil {
			return errs.Wrap(err, "poll duplication job")
		}

		switch job.Status {
		case jobComplete:
			return nil
		case jobFailed:
			if job.Error != "" {
				return errs.Mark(errs.New(job.Error), ErrJobFailed)
			}
			return ErrJobFailed
		case jobQueued, jobRunning:
			// keep polling
		default:
			return errs.Mark(errs.Newf("unknown job status %q", job.Status), ErrJobFailed)
		}

		if time.Now().After(deadline) {
			return ErrJobTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) ApproveRequest(ctx context.Context, requestID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/course-requests/%s/approve", c.baseURL, requestID)
	if err := c.do(ctx, http.MethodPost, url, nil, nil); err != nil {
		return errs.Wrap(err, "approve course request")
	}
	return nil
}

func (c *Client) CourseURL(courseID uuid.UUID) string {
	return fmt.Sprintf("%s/course/view?id=%s", c.courseBaseURL, courseID)
}

func (c *Client) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errs.Mark(errs.Newf("platform returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), ErrUnexpectedStatus)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
