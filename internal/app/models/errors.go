package models

import "errors"

// Domain specific errors for consultation and chat.
var (
	ErrValidation       = errors.New("validation failed")
	ErrMissingRawData   = errors.New("rawData.userInfo is required")
	ErrInvalidName      = errors.New("이름은 2~10자의 한글 또는 영문이어야 해요.")
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrChatLimitReached = errors.New("follow-up question limit reached")
	ErrLLMUnavailable   = errors.New("language model is not configured")
	ErrLLMFailure       = errors.New("language model request failed")
)
