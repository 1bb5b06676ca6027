package user

// User represents a user entity in the system.
type User struct {
	ID       int64  // ID is the unique identifier for the user
	Name     string // Name is the full name of the user
	Email    string // Email is the unique email address of the user
	Provider bool   // Provider marks whether the user may receive bookings
	Avatar   *File  // Avatar is the user's profile picture, if any
}

// File represents a stored file attached to a user.
type File struct {
	ID   int64  // ID is the unique identifier for the file
	Path string // Path is the storage path of the file
	URL  string // URL is the publicly resolvable address of the file
}
