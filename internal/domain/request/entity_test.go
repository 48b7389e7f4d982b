//go:build unit

package request_test

import (
	"strings"
	"testing"
	"time"

	"course-triage/internal/domain/course"
	"course-triage/internal/domain/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct(t *testing.T) {
	id := uuid.New()
	requester := uuid.New()
	category := uuid.New()
	submitted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("basic success case", func(t *testing.T) {
		actual, err := request.Reconstruct(id, requester, "  Intro to Go  ", " go101 ", category, "please", submitted)
		require.NoError(t, err)

		assert.Equal(t, id, actual.ID())
		assert.Equal(t, requester, actual.RequesterID())
		assert.Equal(t, "Intro to Go", actual.FullName())
		assert.Equal(t, "go101", actual.ShortName())
		assert.Equal(t, category, actual.CategoryID())
		assert.Equal(t, submitted, actual.SubmittedAt())
	})

	testCases := []struct {
		name      string
		requester uuid.UUID
		fullName  string
		shortName string
		errIs     error
	}{
		{
			name:      "missing requester",
			requester: uuid.Nil,
			fullName:  "Intro to Go",
			shortName: "go101",
			errIs:     request.ErrMissingRequester,
		},
		{
			name:      "blank full name",
			requester: requester,
			fullName:  "   ",
			shortName: "go101",
			errIs:     course.ErrEmptyFullName,
		},
		{
			name:      "blank short name",
			requester: requester,
			fullName:  "Intro to Go",
			shortName: "",
			errIs:     course.ErrEmptyShortName,
		},
		{
			name:      "oversized full name",
			requester: requester,
			fullName:  strings.Repeat("x", course.MaxFullNameLength+1),
			shortName: "go101",
			errIs:     course.ErrFullNameTooLong,
		},
		{
			name:      "oversized short name",
			requester: requester,
			fullName:  "Intro to Go",
			shortName: strings.Repeat("x", course.MaxShortNameLength+1),
			errIs:     course.ErrShortNameTooLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := request.Reconstruct(id, tc.requester, tc.fullName, tc.shortName, category, "", submitted)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestTemplateInputFor(t *testing.T) {
	req, err := request.Reconstruct(uuid.New(), uuid.New(), "Intro to Go", "go101", uuid.New(), "", time.Now())
	require.NoError(t, err)

	t.Run("valid input set", func(t *testing.T) {
		template := uuid.New()
		input, err := req.TemplateInputFor(template)
		require.NoError(t, err)
		assert.Equal(t, "Intro to Go", input.FullName)
		assert.Equal(t, "go101", input.ShortName)
		assert.Equal(t, req.CategoryID(), input.CategoryID)
		assert.Equal(t, template, input.TemplateID)
	})

	t.Run("nil template id", func(t *testing.T) {
		_, err := req.TemplateInputFor(uuid.Nil)
		require.Error(t, err)
	})

	t.Run("nil category id", func(t *testing.T) {
		noCat, err := request.Reconstruct(uuid.New(), uuid.New(), "Intro to Go", "go101", uuid.Nil, "", time.Now())
		require.NoError(t, err)

		_, err = noCat.TemplateInputFor(uuid.New())
		assert.ErrorIs(t, err, request.ErrMissingCategory)
	})
}
