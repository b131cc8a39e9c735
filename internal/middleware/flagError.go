package middleware

import (
	"errors"

	"github.com/gemward/gemward/internal/errs"
	"github.com/gemward/gemward/internal/logger"
)

var ErrLogged = errors.New("already logged")

func UsageError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}
