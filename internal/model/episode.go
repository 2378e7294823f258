package model

// Episode is a single broadcast of the show.  Deleting an episode
// removes every appearance recorded against it.
//
// Fields:
//
//	ID     – primary key identifier.
//	Date   – broadcast date as free text (e.g. "1/11/25").
//	Number – episode number.
type Episode struct {
	ID     int64  // episodes.id
	Date   string // episodes.date
	Number int    // episodes.number
}

// EpisodeAppearance is one row of an episode's line-up: the appearance
// joined with the guest who made it.  The parent episode is not
// repeated here.
type EpisodeAppearance struct {
	Appearance
	Guest Guest
}

// EpisodeDetail is an episode together with its line-up, loaded with
// an explicit join rather than per-row lookups.
type EpisodeDetail struct {
	Episode
	Appearances []EpisodeAppearance
}
