package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ideas-service/model"
)

func TestVisibilityValid(t *testing.T) {
	assert.True(t, models.VisibilityPublic.Valid())
	assert.True(t, models.VisibilityProtected.Valid())
	assert.True(t, models.VisibilityPrivate.Valid())

	assert.False(t, models.Visibility("").Valid())
	assert.False(t, models.Visibility("public").Valid())
	assert.False(t, models.Visibility("FRIENDS").Valid())
}
