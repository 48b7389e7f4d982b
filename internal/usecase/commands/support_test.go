//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"course-triage/internal/domain/request"
	"course-triage/internal/infra/db"
	"course-triage/internal/usecase/commands"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory stand-in for the platform database shared by
// the fake UoW, Tx and CommandReads.
type fakeStore struct {
	pending       []shared.RequestSnapshot
	managedCounts map[uuid.UUID]int
	courses       map[uuid.UUID]*shared.CourseSnapshot
	shortnames    map[string]bool
	sections      map[uuid.UUID][]shared.SectionSnapshot
	users         map[uuid.UUID]*shared.RequesterSnapshot
	existingRoles map[string]bool

	rejected      map[uuid.UUID]string
	deleted       []uuid.UUID
	enrolled      []enrolment
	assignedRoles []roleAssignment
	systemRoles   []roleAssignment
	cleared       []uuid.UUID
	startDates    map[uuid.UUID]time.Time
	notifications []notification

	failSetStartDate bool
	failEnrol        bool
	failDeleteReq    bool
}

type enrolment struct {
	courseID uuid.UUID
	userID   uuid.UUID
}

type roleAssignment struct {
	courseID uuid.UUID
	userID   uuid.UUID
	roleID   uuid.UUID
}

type notification struct {
	kind    string
	topic   string
	payload []byte
	runAt   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		managedCounts: make(map[uuid.UUID]int),
		courses:       make(map[uuid.UUID]*shared.CourseSnapshot),
		shortnames:    make(map[string]bool),
		sections:      make(map[uuid.UUID][]shared.SectionSnapshot),
		users:         make(map[uuid.UUID]*shared.RequesterSnapshot),
		existingRoles: make(map[string]bool),
		rejected:      make(map[uuid.UUID]string),
		startDates:    make(map[uuid.UUID]time.Time),
	}
}

func (s *fakeStore) addUser(id uuid.UUID) {
	s.users[id] = &shared.RequesterSnapshot{
		ID:        id,
		Username:  "jdoe",
		FirstName: "Jordan",
		LastName:  "Doe",
		Email:     "jdoe@example.org",
	}
}

// settle removes a request row from the pending queue, mirroring what the
// real store does once a request is rejected, deleted or approved.
func (s *fakeStore) settle(id uuid.UUID) {
	for i, row := range s.pending {
		if row.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

func (s *fakeStore) addCourse(id uuid.UUID, shortname string) {
	s.courses[id] = &shared.CourseSnapshot{ID: id, ShortName: shortname, Visible: true}
	if shortname != "" {
		s.shortnames[shortname] = true
	}
}

func roleKey(courseID, userID, roleID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", courseID, userID, roleID)
}

// ---- shared.UnitOfWork ----

type fakeUoW struct {
	store *fakeStore
}

func newFakeUoW(store *fakeStore) *fakeUoW {
	return &fakeUoW{store: store}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

// ---- shared.Tx ----

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Requests() shared.RequestRepository           { return &fakeRequests{store: t.store} }
func (t *fakeTx) Courses() shared.CourseRepository             { return &fakeCourses{store: t.store} }
func (t *fakeTx) Sections() shared.SectionRepository           { return &fakeSections{store: t.store} }
func (t *fakeTx) Enrolments() shared.EnrolmentRepository       { return &fakeEnrolments{store: t.store} }
func (t *fakeTx) Users() shared.UserRepository                 { return &fakeUsers{store: t.store} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotifications{store: t.store} }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

// ---- shared.CommandReads ----

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) PendingRequests(_ context.Context) ([]shared.RequestSnapshot, error) {
	// Hand out a copy, as materialized query rows would be; settling
	// mid-pass must not disturb a caller's row set.
	return append([]shared.RequestSnapshot(nil), r.store.pending...), nil
}

func (r *fakeReads) ManagedCourseCount(_ context.Context, userID uuid.UUID) (int, error) {
	return r.store.managedCounts[userID], nil
}

func (r *fakeReads) CourseExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.store.courses[id]
	return ok, nil
}

func (r *fakeReads) ShortnameExists(_ context.Context, shortname string) (bool, error) {
	return r.store.shortnames[shortname], nil
}

func (r *fakeReads) CourseByID(_ context.Context, id uuid.UUID) (*shared.CourseSnapshot, error) {
	c, ok := r.store.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s not found", id)
	}
	return c, nil
}

func (r *fakeReads) RequesterByID(_ context.Context, id uuid.UUID) (*shared.RequesterSnapshot, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

// ---- repositories ----

type fakeRequests struct {
	store *fakeStore
}

func (f *fakeRequests) ListPendingOrdered(_ context.Context, _ db.DBTX) ([]shared.RequestSnapshot, error) {
	return append([]shared.RequestSnapshot(nil), f.store.pending...), nil
}

func (f *fakeRequests) MarkRejected(_ context.Context, _ db.DBTX, id uuid.UUID, reason string, _ time.Time) error {
	f.store.rejected[id] = reason
	f.store.settle(id)
	return nil
}

func (f *fakeRequests) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if f.store.failDeleteReq {
		return fmt.Errorf("delete blew up")
	}
	f.store.deleted = append(f.store.deleted, id)
	f.store.settle(id)
	return nil
}

type fakeCourses struct {
	store *fakeStore
}

func (f *fakeCourses) Exists(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	_, ok := f.store.courses[id]
	return ok, nil
}

func (f *fakeCourses) ShortnameExists(_ context.Context, _ db.DBTX, shortname string) (bool, error) {
	return f.store.shortnames[shortname], nil
}

func (f *fakeCourses) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.CourseSnapshot, error) {
	c, ok := f.store.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s not found", id)
	}
	return c, nil
}

func (f *fakeCourses) SetStartDate(_ context.Context, _ db.DBTX, id uuid.UUID, startDate time.Time) error {
	if f.store.failSetStartDate {
		return fmt.Errorf("start date update blew up")
	}
	f.store.startDates[id] = startDate
	return nil
}

type fakeSections struct {
	store *fakeStore
}

func (f *fakeSections) ListByCourse(_ context.Context, _ db.DBTX, courseID uuid.UUID) ([]shared.SectionSnapshot, error) {
	return f.store.sections[courseID], nil
}

func (f *fakeSections) ClearName(_ context.Context, _ db.DBTX, sectionID uuid.UUID) error {
	f.store.cleared = append(f.store.cleared, sectionID)
	return nil
}

type fakeEnrolments struct {
	store *fakeStore
}

func (f *fakeEnrolments) CountManagedCourses(_ context.Context, _ db.DBTX, userID uuid.UUID) (int, error) {
	return f.store.managedCounts[userID], nil
}

func (f *fakeEnrolments) EnsureManualMethod(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

func (f *fakeEnrolments) Enrol(_ context.Context, _ db.DBTX, courseID, userID uuid.UUID) error {
	if f.store.failEnrol {
		return fmt.Errorf("enrolment blew up")
	}
	f.store.enrolled = append(f.store.enrolled, enrolment{courseID: courseID, userID: userID})
	return nil
}

func (f *fakeEnrolments) HasRole(_ context.Context, _ db.DBTX, courseID, userID, roleID uuid.UUID) (bool, error) {
	return f.store.existingRoles[roleKey(courseID, userID, roleID)], nil
}

func (f *fakeEnrolments) AssignRole(_ context.Context, _ db.DBTX, courseID, userID, roleID uuid.UUID) error {
	f.store.assignedRoles = append(f.store.assignedRoles, roleAssignment{courseID: courseID, userID: userID, roleID: roleID})
	return nil
}

func (f *fakeEnrolments) AssignSystemRole(_ context.Context, _ db.DBTX, userID, roleID uuid.UUID) error {
	f.store.systemRoles = append(f.store.systemRoles, roleAssignment{userID: userID, roleID: roleID})
	return nil
}

type fakeUsers struct {
	store *fakeStore
}

func (f *fakeUsers) FindActive(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.RequesterSnapshot, error) {
	u, ok := f.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

type fakeNotifications struct {
	store *fakeStore
}

func (f *fakeNotifications) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	f.store.notifications = append(f.store.notifications, notification{kind: kind, topic: topic, payload: payload, runAt: runAt})
	return nil
}

// ---- commands ports ----

type fakeSettings struct {
	cfg commands.Config
	err error
}

func (f *fakeSettings) Load(_ context.Context) (commands.Config, error) {
	return f.cfg, f.err
}

type fakePlatform struct {
	store        *fakeStore
	approved     []uuid.UUID
	approveErr   error
	duplicateRes *commands.DuplicateResult
	duplicateErr error
	awaitErr     error
	duplicated   int
	awaited      []uuid.UUID
}

func (f *fakePlatform) Duplicate(_ context.Context, _ uuid.UUID, _, _ string, _ uuid.UUID, _ bool, _ commands.DuplicateOptions) (*commands.DuplicateResult, error) {
	f.duplicated++
	if f.duplicateErr != nil {
		return nil, f.duplicateErr
	}
	return f.duplicateRes, nil
}

func (f *fakePlatform) AwaitDuplication(_ context.Context, jobID uuid.UUID) error {
	f.awaited = append(f.awaited, jobID)
	return f.awaitErr
}

func (f *fakePlatform) ApproveRequest(_ context.Context, requestID uuid.UUID) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approved = append(f.approved, requestID)
	if f.store != nil {
		f.store.settle(requestID)
	}
	return nil
}

func (f *fakePlatform) CourseURL(courseID uuid.UUID) string {
	return "https://learn.example.org/course/view?id=" + courseID.String()
}

type fakeProvisioner struct {
	store       *fakeStore
	result      commands.ProvisionResult
	provisioned []uuid.UUID
}

func (f *fakeProvisioner) FromTemplate(_ context.Context, req *request.CourseRequest, _ commands.Config) commands.ProvisionResult {
	f.provisioned = append(f.provisioned, req.ID())
	if f.store != nil && f.result.Succeeded() {
		f.store.settle(req.ID())
	}
	return f.result
}
