package util

import "errors"

var (
	ErrInvalidSpecialization = errors.New("invalid specialization")
	ErrInvalidDifficulty     = errors.New("invalid difficulty")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionNotActive      = errors.New("session is not active")
	ErrTestNotFinished       = errors.New("test not finished yet")
	ErrNoQuestions           = errors.New("failed to load questions")
)
