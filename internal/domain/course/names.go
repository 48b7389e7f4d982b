package course

import (
	"strings"

	"course-triage/internal/pkg/errs"
)

var (
	ErrEmptyFullName    = errs.New("course full name is empty")
	ErrEmptyShortName   = errs.New("course short name is empty")
	ErrFullNameTooLong  = errs.New("course full name too long")
	ErrShortNameTooLong = errs.New("course short name too long")
)

const (
	MaxFullNameLength  = 254
	MaxShortNameLength = 100
)

type FullName struct {
	value string
}

func NewFullName(v string) (FullName, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return FullName{}, ErrEmptyFullName
	}
	if len(v) > MaxFullNameLength {
		return FullName{}, ErrFullNameTooLong
	}
	return FullName{value: v}, nil
}

func (n FullName) String() string { return n.value }

type ShortName struct {
	value string
}

func NewShortName(v string) (ShortName, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return ShortName{}, ErrEmptyShortName
	}
	if len(v) > MaxShortNameLength {
		return ShortName{}, ErrShortNameTooLong
	}
	return ShortName{value: v}, nil
}

func (n ShortName) String() string { return n.value }
