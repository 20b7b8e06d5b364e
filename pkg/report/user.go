package report

import (
	"context"
	"fmt"
	"reflect"
)

// UserInfo identifies the authenticated user in a report.
type UserInfo struct {
	ID      any
	Class   string
	IDField string
}

// Identifier is implemented by user types that name their own key.
type Identifier interface {
	Identifier() (field string, value any)
}

// UserInfoFunc returns the current user, or nil when nobody is
// authenticated. Errors and panics are shown in the report.
type UserInfoFunc func(ctx context.Context) (*UserInfo, error)

type userKey struct{}

// ContextWithUser stores the authenticated user for reporting.
func ContextWithUser(ctx context.Context, user any) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext is the default UserInfoFunc.
func UserFromContext(ctx context.Context) (*UserInfo, error) {
	return UserInfoOf(ctx.Value(userKey{})), nil
}

// UserInfoOf describes user. Types implementing Identifier name their key,
// otherwise an exported ID field is used when present.
func UserInfoOf(user any) *UserInfo {
	if user == nil {
		return nil
	}
	if info, ok := user.(*UserInfo); ok {
		return info
	}
	info := &UserInfo{Class: fmt.Sprintf("%T", user), IDField: "id"}
	if ident, ok := user.(Identifier); ok {
		info.IDField, info.ID = ident.Identifier()
		return info
	}
	rv := reflect.ValueOf(user)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		if f := rv.FieldByName("ID"); f.IsValid() && f.CanInterface() {
			info.ID = f.Interface()
		}
	}
	return info
}

func (u *UserInfo) fields() map[string]any {
	field := u.IDField
	if field == "" {
		field = "id"
	}
	return map[string]any{"class": u.Class, field: u.ID}
}
