package models

type EEventLogType string

const (
	UserRegistered EEventLogType = "User registered"
	UserLoggedIn   EEventLogType = "User logged in"
	UserLoggedOut  EEventLogType = "User logged out"
	ImageUploaded  EEventLogType = "Image uploaded"
	ImageDeleted   EEventLogType = "Image deleted"
	AlbumDeleted   EEventLogType = "Album deleted"
)
