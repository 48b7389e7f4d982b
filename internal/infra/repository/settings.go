package repository

import (
	"context"
	"strconv"

	"course-triage/internal/infra"
	"course-triage/internal/pkg/errs"
	"course-triage/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Setting keys recognized in the triage_settings table. Unknown keys are
// ignored; missing keys fall back to the zero value, which keeps the
// feature disabled until an admin configures it.
const (
	settingEnabled         = "enabled"
	settingMaxCourses      = "maxcourses"
	settingReject          = "reject"
	settingMaxReqToReject  = "maxreqtoreject"
	settingUseTemplate     = "usetemplate"
	settingCourseTemplate  = "coursetemplate"
	settingApproveMessage  = "approvemessage"
	settingCourseRole      = "courserole"
	settingSystemRole      = "systemrole"
	settingStrictDatePatch = "strictdatepatch"
)

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Load snapshots the triage configuration for one pass.
func (r *SettingsRepository) Load(ctx context.Context) (commands.Config, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, value FROM triage_settings`)
	if err != nil {
		return commands.Config{}, infra.WrapRepoErr("failed to load triage settings", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return commands.Config{}, infra.WrapRepoErr("failed to scan triage setting", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return commands.Config{}, infra.WrapRepoErr("failed to read triage settings", err)
	}

	return buildConfig(values)
}

func buildConfig(values map[string]string) (commands.Config, error) {
	var cfg commands.Config
	var err error

	if cfg.Enabled, err = parseBool(values, settingEnabled); err != nil {
		return commands.Config{}, err
	}
	if cfg.MaxCourses, err = parseInt(values, settingMaxCourses); err != nil {
		return commands.Config{}, err
	}
	if cfg.Reject, err = parseBool(values, settingReject); err != nil {
		return commands.Config{}, err
	}
	if cfg.MaxReqToReject, err = parseInt(values, settingMaxReqToReject); err != nil {
		return commands.Config{}, err
	}
	if cfg.UseTemplate, err = parseBool(values, settingUseTemplate); err != nil {
		return commands.Config{}, err
	}
	if cfg.CourseTemplate, err = parseUUID(values, settingCourseTemplate); err != nil {
		return commands.Config{}, err
	}
	if cfg.CourseRole, err = parseUUID(values, settingCourseRole); err != nil {
		return commands.Config{}, err
	}
	if cfg.SystemRole, err = parseUUID(values, settingSystemRole); err != nil {
		return commands.Config{}, err
	}
	if cfg.StrictDatePatch, err = parseBool(values, settingStrictDatePatch); err != nil {
		return commands.Config{}, err
	}
	cfg.ApproveMessage = values[settingApproveMessage]

	return cfg, nil
}

func parseBool(values map[string]string, key string) (bool, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.Wrap(err, "invalid boolean setting "+key)
	}
	return b, nil
}

func parseInt(values map[string]string, key string) (int, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.Wrap(err, "invalid integer setting "+key)
	}
	return n, nil
}

func parseUUID(values map[string]string, key string) (uuid.UUID, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "invalid id setting "+key)
	}
	return id, nil
}
