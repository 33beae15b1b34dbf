package matching_test

import (
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		descriptors []string
		want        matching.FormatSet
	}{
		{
			name:        "remote synonym maps to online",
			descriptors: []string{"дистанционно"},
			want:        matching.FormatSet{Online: true},
		},
		{
			name:        "english remote entry maps to online",
			descriptors: []string{"online"},
			want:        matching.FormatSet{Online: true},
		},
		{
			name:        "at tutor's place maps to home",
			descriptors: []string{"у репетитора"},
			want:        matching.FormatSet{Home: true},
		},
		{
			name:        "at student's place maps to travel",
			descriptors: []string{"у ученика"},
			want:        matching.FormatSet{Travel: true},
		},
		{
			name:        "mixed case and whitespace are normalized",
			descriptors: []string{"  Дистанционно "},
			want:        matching.FormatSet{Online: true},
		},
		{
			name:        "multiple descriptors accumulate",
			descriptors: []string{"дистанционно", "у ученика"},
			want:        matching.FormatSet{Online: true, Travel: true},
		},
		{
			name:        "duplicates are idempotent",
			descriptors: []string{"онлайн", "дистанционно"},
			want:        matching.FormatSet{Online: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := matching.CanonicalFormats(tt.descriptors)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown descriptor is a configuration error", func(t *testing.T) {
		t.Parallel()

		_, err := matching.CanonicalFormats([]string{"дистанционно", "на луне"})
		require.ErrorIs(t, err, matching.ErrUnknownPlace)
	})

	t.Run("empty input yields empty set", func(t *testing.T) {
		t.Parallel()

		got, err := matching.CanonicalFormats(nil)
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
	})
}
