package entity

import "time"

// UserMetaData is one row per user, upserted on every "get me" call.
type UserMetaData struct {
	UserID    int64     `db:"user_id"`
	IP        *string   `db:"ip"`
	City      *string   `db:"city"`
	Region    *string   `db:"region"`
	Country   *string   `db:"country"`
	Timezone  *string   `db:"timezone"`
	LastVisit time.Time `db:"last_visit"`
}
