package vec

import "reflect"

// Dropper is implemented by element types that must release something when
// a container discards them. Drop runs exactly once for every element the
// container throws away (Release, Clear, Truncate, closing an iterator early)
// and never for values handed back to the caller (Pop, Remove, values yielded
// by an iterator).
//
// Either a value or a pointer receiver works. For interface element types the
// dynamic value is checked. Nil pointer elements are never dropped.
type Dropper interface {
	Drop()
}

var dropperType = reflect.TypeFor[Dropper]()

// dropSlots drops s front to back and zeroes every slot.
func dropSlots[T any](s []T) {
	if _, ok := any((*T)(nil)).(Dropper); ok {
		var zero T
		for i := range s {
			any(&s[i]).(Dropper).Drop()
			s[i] = zero
		}
		return
	}
	if t := reflect.TypeFor[T](); t.Kind() != reflect.Interface && !t.Implements(dropperType) {
		clear(s)
		return
	}
	var zero T
	for i := range s {
		if d, ok := any(s[i]).(Dropper); ok && !isNilPointer(d) {
			d.Drop()
		}
		s[i] = zero
	}
}

// isNilPointer reports whether d holds a typed nil pointer. Such elements
// own nothing and are skipped.
func isNilPointer(d Dropper) bool {
	rv := reflect.ValueOf(d)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
