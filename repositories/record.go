package repositories

import (
	"fmt"
	"task-lab/domain"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the task record.
const (
	taskFieldID protowire.Number = iota + 1
	taskFieldOwnerID
	taskFieldTitle
	taskFieldDescription
	taskFieldCompleted
	taskFieldCreatedAt
	taskFieldUpdatedAt
)

// Field numbers of the user record.
const (
	userFieldID protowire.Number = iota + 1
	userFieldEmail
	userFieldPasswordHash
	userFieldRoles
	userFieldCreatedAt
)

func marshalTask(task domain.Task) []byte {
	var b []byte
	b = appendString(b, taskFieldID, task.ID)
	b = appendString(b, taskFieldOwnerID, task.OwnerID)
	b = appendString(b, taskFieldTitle, task.Title)
	b = appendString(b, taskFieldDescription, task.Description)
	b = protowire.AppendTag(b, taskFieldCompleted, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(task.Completed))
	b = appendTime(b, taskFieldCreatedAt, task.CreatedAt)
	b = appendTime(b, taskFieldUpdatedAt, task.UpdatedAt)
	return b
}

func unmarshalTask(b []byte) (domain.Task, error) {
	var task domain.Task
	err := consumeFields(b, func(num protowire.Number, s string, v uint64) {
		switch num {
		case taskFieldID:
			task.ID = s
		case taskFieldOwnerID:
			task.OwnerID = s
		case taskFieldTitle:
			task.Title = s
		case taskFieldDescription:
			task.Description = s
		case taskFieldCompleted:
			task.Completed = protowire.DecodeBool(v)
		case taskFieldCreatedAt:
			task.CreatedAt = time.Unix(0, int64(v)).UTC()
		case taskFieldUpdatedAt:
			task.UpdatedAt = time.Unix(0, int64(v)).UTC()
		}
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("decode task record: %w", err)
	}
	return task, nil
}

func marshalUser(user User) []byte {
	var b []byte
	b = appendString(b, userFieldID, user.ID)
	b = appendString(b, userFieldEmail, user.Email)
	b = appendString(b, userFieldPasswordHash, user.PasswordHash)
	for _, role := range user.Roles {
		b = appendString(b, userFieldRoles, role)
	}
	b = appendTime(b, userFieldCreatedAt, user.CreatedAt)
	return b
}

func unmarshalUser(b []byte) (User, error) {
	var user User
	err := consumeFields(b, func(num protowire.Number, s string, v uint64) {
		switch num {
		case userFieldID:
			user.ID = s
		case userFieldEmail:
			user.Email = s
		case userFieldPasswordHash:
			user.PasswordHash = s
		case userFieldRoles:
			user.Roles = append(user.Roles, s)
		case userFieldCreatedAt:
			user.CreatedAt = time.Unix(0, int64(v)).UTC()
		}
	})
	if err != nil {
		return User{}, fmt.Errorf("decode user record: %w", err)
	}
	return user, nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

// consumeFields walks a record and hands every string or varint field to visit.
// Unknown wire types are skipped.
func consumeFields(b []byte, visit func(num protowire.Number, s string, v uint64)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch typ {
		case protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			visit(num, s, 0)
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			visit(num, "", v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}
