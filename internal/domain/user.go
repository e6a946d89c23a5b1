package domain

import "time"

type User struct {
	ID        int64
	Username  string
	Email     string
	Role      string
	CreatedAt time.Time
}
