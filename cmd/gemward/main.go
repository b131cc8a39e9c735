package main

import (
	"errors"
	"os"

	cmd "github.com/gemward/gemward/internal"
	"github.com/gemward/gemward/internal/logger"
	"github.com/gemward/gemward/internal/middleware"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, middleware.ErrLogged) {
			logger.LogError(err.Error())
		}
		os.Exit(1)
	}
}
