//go:build unit

package course_test

import (
	"testing"

	"course-triage/internal/domain/course"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSectionLabel(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "plain text", in: "Week 1", expected: "Week 1"},
		{name: "tags stripped", in: "<b>Week 1</b>", expected: "Week 1"},
		{name: "tags only", in: "<p></p>", expected: ""},
		{name: "entities decoded", in: "Tips &amp; Tricks", expected: "Tips & Tricks"},
		{name: "nbsp only", in: "&nbsp;&nbsp;", expected: ""},
		{name: "whitespace only", in: "   ", expected: ""},
		{name: "empty", in: "", expected: ""},
		{name: "nested markup with text", in: "<div><span>Intro</span></div>", expected: "Intro"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, course.SanitizeSectionLabel(tc.in))
		})
	}
}

func TestSectionLabelNeedsClearing(t *testing.T) {
	markupOnly := "<p>&nbsp;</p>"
	named := "Week 1"

	assert.False(t, course.SectionLabelNeedsClearing(nil))
	assert.False(t, course.SectionLabelNeedsClearing(&named))
	assert.True(t, course.SectionLabelNeedsClearing(&markupOnly))
}
