package app

import "github.com/google/uuid"

func uuidString() string { return uuid.NewString() }
