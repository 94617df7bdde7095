package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNoteNotFound      = fmt.Errorf("note %w", ErrNotFound)
	ErrFolderNotFound    = fmt.Errorf("folder %w", ErrNotFound)
	ErrAlreadySubscribed = errors.New("an active pro subscription already exists")
)
