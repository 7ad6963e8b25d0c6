package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSlugTaken         = errors.New("slug already in use")
	ErrEmailTaken        = errors.New("email already in use")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrBookingOverlap    = errors.New("room is already booked for that time")
	ErrInvalidInterval   = errors.New("end time must be after start time")
	ErrStartInPast       = errors.New("start time cannot be in the past")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotAllowed        = errors.New("not allowed")
	ErrBadCredentials    = errors.New("invalid email or password")
)
