package model

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{&User{}, &Cache{}, &CacheEvent{}}
}
