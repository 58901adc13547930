package models

// Owner identifies who a card belongs to: either the numeric id of a
// registered user, or the display name of someone a teacher assigned cards
// to before they ever contacted the bot. Callers must check Resolved rather
// than assume a usable id exists.
type Owner struct {
	id       int64
	name     string
	resolved bool
}

// ResolvedOwner returns an owner backed by a registered user id.
func ResolvedOwner(id int64) Owner {
	return Owner{id: id, resolved: true}
}

// PendingOwner returns an owner known only by display name.
func PendingOwner(name string) Owner {
	return Owner{name: name}
}

// Resolved reports the user id, if one exists.
func (o Owner) Resolved() (int64, bool) {
	return o.id, o.resolved
}

// PendingName returns the display name of an unresolved owner.
func (o Owner) PendingName() string {
	return o.name
}
