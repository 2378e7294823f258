package model

// Guest is a person who can appear on the show.  Name and Occupation
// are both required.  Deleting a guest removes all of their
// appearances.
//
// Fields:
//
//	ID         – primary key identifier.
//	Name       – display name of the guest.
//	Occupation – what the guest does for a living.
type Guest struct {
	ID         int64  // guests.id
	Name       string // guests.name
	Occupation string // guests.occupation
}
