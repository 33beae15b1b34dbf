package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/productPach/tutorio-backend-sub000/internal/database/types/enum"
)

// ErrUnknownPlace is returned when an order carries a place descriptor that
// maps to no known lesson format. This is a data-entry problem, not an empty
// result.
var ErrUnknownPlace = errors.New("unknown place descriptor")

// FormatSet is the canonical set of lesson formats an order requests.
type FormatSet struct {
	Online bool
	Home   bool
	Travel bool
}

// IsEmpty reports whether no format was requested.
func (f FormatSet) IsEmpty() bool {
	return !f.Online && !f.Home && !f.Travel
}

// Contains reports whether the given format is requested.
func (f FormatSet) Contains(format enum.LessonFormat) bool {
	switch format {
	case enum.FormatOnline:
		return f.Online
	case enum.FormatHome:
		return f.Home
	case enum.FormatTravel:
		return f.Travel
	default:
		return false
	}
}

// placeSynonyms maps normalized free-text place descriptors to canonical
// formats. Orders are authored in Russian with occasional English entries
// from the mobile clients.
var placeSynonyms = map[string]enum.LessonFormat{
	"дистанционно":    enum.FormatOnline,
	"онлайн":          enum.FormatOnline,
	"remote":          enum.FormatOnline,
	"online":          enum.FormatOnline,
	"у репетитора":    enum.FormatHome,
	"у преподавателя": enum.FormatHome,
	"at tutor":        enum.FormatHome,
	"у ученика":       enum.FormatTravel,
	"у меня дома":     enum.FormatTravel,
	"выезд к ученику": enum.FormatTravel,
	"at student":      enum.FormatTravel,
}

// CanonicalFormats translates an order's free-text place descriptors into a
// canonical format set. An unrecognized descriptor is a configuration error.
func CanonicalFormats(descriptors []string) (FormatSet, error) {
	var formats FormatSet

	for _, descriptor := range descriptors {
		normalized := strings.ToLower(strings.TrimSpace(descriptor))

		format, ok := placeSynonyms[normalized]
		if !ok {
			return FormatSet{}, fmt.Errorf("%w: %q", ErrUnknownPlace, descriptor)
		}

		switch format {
		case enum.FormatOnline:
			formats.Online = true
		case enum.FormatHome:
			formats.Home = true
		case enum.FormatTravel:
			formats.Travel = true
		}
	}

	return formats, nil
}
