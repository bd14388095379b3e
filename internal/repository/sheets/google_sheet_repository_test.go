package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestA1(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "'Produção'!A1", A1("Produção"))
	assert.Equal(t, "'Box''s'!A1", A1("Box's"))
}
