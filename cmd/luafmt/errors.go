package main

import (
	"errors"
	"fmt"
)

var errNeedsFormatting = errors.New("some files are not formatted")

type usageError struct {
	flag  string
	value string
	want  string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("invalid --%s %q: want %s", e.flag, e.value, e.want)
}
