package models

// Platform represents the streaming service a show is associated with
type Platform string

const (
	PlatformNetflix   Platform = "netflix"
	PlatformHulu      Platform = "hulu"
	PlatformDisney    Platform = "disney"
	PlatformPrime     Platform = "prime"
	PlatformApple     Platform = "apple"
	PlatformHBO       Platform = "hbo"
	PlatformParamount Platform = "paramount"
	PlatformPeacock   Platform = "peacock"
	PlatformOther     Platform = "other"
)

// Platforms lists every accepted platform in display order
var Platforms = []Platform{
	PlatformNetflix,
	PlatformHulu,
	PlatformDisney,
	PlatformPrime,
	PlatformApple,
	PlatformHBO,
	PlatformParamount,
	PlatformPeacock,
	PlatformOther,
}

// Valid reports whether p is one of the known platforms
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Status represents where a show sits in the user's watchlist
type Status string

const (
	StatusWatching  Status = "watching"
	StatusPlanned   Status = "planned"
	StatusCompleted Status = "completed"
)

// Statuses lists every accepted status in dashboard tab order
var Statuses = []Status{StatusWatching, StatusPlanned, StatusCompleted}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusWatching, StatusPlanned, StatusCompleted:
		return true
	}
	return false
}
