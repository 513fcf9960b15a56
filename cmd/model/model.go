package model

// All lists every table of the service, in migration order.
func All() []any {
	return []any{
		&User{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Subscription{},
		&Playlist{},
		&PlaylistVideo{},
		&WatchHistory{},
	}
}
