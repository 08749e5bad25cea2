package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode = errors.New("invalid coupon code format")
	ErrInvalidCouponType = errors.New("invalid coupon type")
	ErrInvalidScope      = errors.New("invalid coupon scope")
	ErrScopeTargetNeeded = errors.New("scoped coupon requires a target id")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is case-insensitive: lookups and comparisons normalize to upper case.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Type string

const (
	TypePercentage Type = "PERCENTAGE"
	TypeFixed      Type = "FIXED"
	TypeFree       Type = "FREE"
)

func NewType(s string) (Type, error) {
	t := Type(s)
	switch t {
	case TypePercentage, TypeFixed, TypeFree:
		return t, nil
	default:
		return "", ErrInvalidCouponType
	}
}

func (t Type) String() string {
	return string(t)
}

type Scope string

const (
	ScopeGlobal       Scope = "GLOBAL"
	ScopeService      Scope = "SERVICE"
	ScopeProfessional Scope = "PROFESSIONAL"
)

func NewScope(s string) (Scope, error) {
	sc := Scope(s)
	switch sc {
	case ScopeGlobal, ScopeService, ScopeProfessional:
		return sc, nil
	default:
		return "", ErrInvalidScope
	}
}

func (s Scope) String() string {
	return string(s)
}
