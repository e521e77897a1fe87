package database

import "github.com/aristath/alpha/internal/domain"

// SetIf returns the (flag, value) argument pair for a
// "col = CASE WHEN ? THEN ? ELSE col END" clause. Statements stay fixed;
// only the arguments say which columns change.
func SetIf[T any](o domain.Optional[T]) []interface{} {
	v, ok := o.Get()
	return []interface{}{ok, v}
}

// PatchArgs flattens SetIf pairs followed by trailing arguments
func PatchArgs(pairs [][]interface{}, tail ...interface{}) []interface{} {
	args := make([]interface{}, 0, len(pairs)*2+len(tail))
	for _, p := range pairs {
		args = append(args, p...)
	}
	return append(args, tail...)
}
