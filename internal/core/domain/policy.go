package domain

// Action is an operation subject to the role policy.
type Action string

const (
	ActionListNotices  Action = "listNotices"
	ActionCreateNotice Action = "createNotice"
	ActionDeleteNotice Action = "deleteNotice"
)

// RoleAnonymous stands for a caller without an identity.
const RoleAnonymous Role = ""

var noticeEditors = []Role{RoleAdmin, RoleFaculty}

// CanPerform reports whether role may perform action. Unknown roles and
// unknown actions are denied.
func CanPerform(role Role, action Action) bool {
	switch action {
	case ActionListNotices:
		return true
	case ActionCreateNotice, ActionDeleteNotice:
		for _, r := range noticeEditors {
			if r == role {
				return true
			}
		}
	}
	return false
}

// RoleOf returns the role of id, or RoleAnonymous when id is nil.
func RoleOf(id *Identity) Role {
	if id == nil {
		return RoleAnonymous
	}
	return id.Role
}
