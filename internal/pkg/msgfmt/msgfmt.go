// Package msgfmt renders the platform's user-facing message templates.
// Templates are flat placeholder strings ({COURSENAME}, {USERNAME}, ...)
// stored in the triage settings, so a strings.Replacer is all that is needed.
package msgfmt

import "strings"

type Vars struct {
	CourseName string
	CourseURL  string
	Username   string
	FirstName  string
	LastName   string
}

func Render(template string, vars Vars) string {
	r := strings.NewReplacer(
		"{COURSENAME}", vars.CourseName,
		"{COURSEURL}", vars.CourseURL,
		"{USERNAME}", vars.Username,
		"{FIRSTNAME}", vars.FirstName,
		"{LASTNAME}", vars.LastName,
	)
	return r.Replace(template)
}
