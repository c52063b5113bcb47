package services

import (
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/engine"
)

func invalid(op, format string, args ...any) error {
	return &engine.Error{Kind: engine.KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func notFound(op, format string, args ...any) error {
	return &engine.Error{Kind: engine.KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

func forbidden(op, format string, args ...any) error {
	return &engine.Error{Kind: engine.KindIllegalState, Op: op, Message: fmt.Sprintf(format, args...)}
}
