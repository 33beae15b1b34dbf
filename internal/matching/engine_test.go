package matching

import (
	"fmt"
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	tutors := make([]*types.Tutor, 45)
	for i := range tutors {
		tutors[i] = &types.Tutor{ID: fmt.Sprintf("t%02d", i)}
	}

	t.Run("defaults apply", func(t *testing.T) {
		t.Parallel()

		result := paginate(tutors, 0, 0)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, DefaultPageSize, result.PageSize)
		assert.Len(t, result.Tutors, DefaultPageSize)
		assert.Equal(t, 45, result.TotalCount)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("last page is partial", func(t *testing.T) {
		t.Parallel()

		result := paginate(tutors, 3, 20)
		assert.Len(t, result.Tutors, 5)
		assert.Same(t, tutors[40], result.Tutors[0])
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		t.Parallel()

		result := paginate(tutors, 10, 20)
		assert.Empty(t, result.Tutors)
		assert.Equal(t, 45, result.TotalCount)
	})

	t.Run("empty set has zero pages", func(t *testing.T) {
		t.Parallel()

		result := paginate(nil, 1, 20)
		assert.Empty(t, result.Tutors)
		assert.Zero(t, result.TotalCount)
		assert.Zero(t, result.TotalPages)
	})

	t.Run("ordering is preserved", func(t *testing.T) {
		t.Parallel()

		result := paginate(tutors, 2, 10)
		assert.Same(t, tutors[10], result.Tutors[0])
		assert.Same(t, tutors[19], result.Tutors[9])
	})
}
