package model

import (
	"fmt"
	"slices"
)

// Plan is a user's subscription tier.
type Plan string

const (
	PlanStandard Plan = "Standard"
	PlanUpgraded Plan = "Upgraded"
)

// Role is an admin account's role.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleModerator  Role = "moderator"
)

// AccountStatus applies to both users and admins.
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
	StatusInactive  AccountStatus = "inactive"
)

// EffectType is the kind of live effect pushed to a player.
type EffectType string

const (
	EffectText         EffectType = "text"
	EffectImage        EffectType = "image"
	EffectNotification EffectType = "notification"
)

var (
	plans    = []Plan{PlanStandard, PlanUpgraded}
	roles    = []Role{RoleAdmin, RoleSuperAdmin, RoleModerator}
	statuses = []AccountStatus{StatusActive, StatusSuspended, StatusInactive}
	effects  = []EffectType{EffectText, EffectImage, EffectNotification}
)

// Plans lists the valid plans in display order.
func Plans() []Plan { return slices.Clone(plans) }

// Roles lists the valid roles in display order.
func Roles() []Role { return slices.Clone(roles) }

// Statuses lists the valid account statuses in display order.
func Statuses() []AccountStatus { return slices.Clone(statuses) }

// EffectTypes lists the valid live effect types in display order.
func EffectTypes() []EffectType { return slices.Clone(effects) }

// ParsePlan returns the plan named s.
func ParsePlan(s string) (Plan, error) { return parseEnum("plan", s, plans) }

// ParseRole returns the role named s.
func ParseRole(s string) (Role, error) { return parseEnum("role", s, roles) }

// ParseStatus returns the account status named s.
func ParseStatus(s string) (AccountStatus, error) { return parseEnum("status", s, statuses) }

// ParseEffectType returns the effect type named s.
func ParseEffectType(s string) (EffectType, error) { return parseEnum("effect type", s, effects) }

func (p Plan) Valid() bool          { return slices.Contains(plans, p) }
func (r Role) Valid() bool          { return slices.Contains(roles, r) }
func (s AccountStatus) Valid() bool { return slices.Contains(statuses, s) }
func (e EffectType) Valid() bool    { return slices.Contains(effects, e) }

// The text (un)marshallers keep the enumerations closed on the wire in both
// directions. An empty value means "absent" and passes through.

func (p Plan) MarshalText() ([]byte, error)          { return marshalEnum("plan", p, plans) }
func (r Role) MarshalText() ([]byte, error)          { return marshalEnum("role", r, roles) }
func (s AccountStatus) MarshalText() ([]byte, error) { return marshalEnum("status", s, statuses) }
func (e EffectType) MarshalText() ([]byte, error)    { return marshalEnum("effect type", e, effects) }

func (p *Plan) UnmarshalText(b []byte) error          { return unmarshalEnum("plan", b, plans, p) }
func (r *Role) UnmarshalText(b []byte) error          { return unmarshalEnum("role", b, roles, r) }
func (s *AccountStatus) UnmarshalText(b []byte) error { return unmarshalEnum("status", b, statuses, s) }
func (e *EffectType) UnmarshalText(b []byte) error    { return unmarshalEnum("effect type", b, effects, e) }

// Options renders a closed set as strings, e.g. for form choices.
func Options[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// InvalidEnumError reports a value outside a closed enumeration.
type InvalidEnumError struct {
	Kind    string
	Value   string
	Allowed []string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s %q (allowed: %v)", e.Kind, e.Value, e.Allowed)
}

func parseEnum[T ~string](kind, s string, allowed []T) (T, error) {
	v := T(s)
	if !slices.Contains(allowed, v) {
		return "", &InvalidEnumError{Kind: kind, Value: s, Allowed: Options(allowed)}
	}
	return v, nil
}

func marshalEnum[T ~string](kind string, v T, allowed []T) ([]byte, error) {
	if v == "" {
		return []byte{}, nil
	}
	if !slices.Contains(allowed, v) {
		return nil, &InvalidEnumError{Kind: kind, Value: string(v), Allowed: Options(allowed)}
	}
	return []byte(v), nil
}

func unmarshalEnum[T ~string](kind string, b []byte, allowed []T, dst *T) error {
	if len(b) == 0 {
		*dst = ""
		return nil
	}
	v, err := parseEnum(kind, string(b), allowed)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
