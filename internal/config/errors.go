package config

import "errors"

var ErrUnknownTier = errors.New("config: unknown quality tier")
