package client

import (
	"strings"

	"github.com/rpggio/hourbank/internal/validation"
)

const maxNameLength = 255

func validateFields(name string, status Status) error {
	v := validation.Violations{}
	validation.Required("name", name, v)
	validation.MaxLen("name", name, maxNameLength, v)
	if status != StatusActive && status != StatusInactive {
		v.Add("status", "must be active or inactive")
	}
	return v.Err(ErrInvalidInput)
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
