package player

import "errors"

var errNothingLoaded = errors.New("no song loaded")
