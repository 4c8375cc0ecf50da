package utils

// Map maps each element in sli.
//
// The element indexed N in the returned slice is mapper(sli[N]).
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}
