package recipe

import "foodgram/internal/domain/user"

// CanMutate decides whether an identity may create, replace or delete the
// recipe: its author, an admin, or a superuser. Anonymous identities (nil)
// never mutate. Pure function, evaluated before any write reaches storage.
func CanMutate(identity *user.User, r *Recipe) bool {
	if identity == nil {
		return false
	}
	return identity.ID == r.AuthorID || identity.IsAdmin()
}

// CanRead is unrestricted, anonymous included. It exists so the read policy
// is stated in one place next to the write policy.
func CanRead(identity *user.User, r *Recipe) bool {
	return true
}
