package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5125550100", NormalizePhone("(512) 555-0100"))
	assert.Equal(t, "15125550100", NormalizePhone("+1 512 555 0100"))
	assert.Equal(t, "", NormalizePhone("нет номера"))
}

func TestDisplayPhone(t *testing.T) {
	assert.Equal(t, "(512) 555-0100", DisplayPhone("5125550100"))
	assert.Equal(t, "(512) 555-0100", DisplayPhone("+1 (512) 555-0100"))

	// Номера неожиданной длины возвращаются как есть
	assert.Equal(t, "555-0100", DisplayPhone("555-0100"))
}
