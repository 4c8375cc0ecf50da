// Package try shortens handling of (value, error) pairs in setup code and tests.
//
//	conf := try.To(configs.LoadBackendConfig(path)).OrFatal(logger)
package try

// Fataler is something having method `Fatal`, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of (T, error).
//
// When error is nil, it is "ok" and the T value is valid.
// Otherwise, it is "no good" and the T value should not be used.
type Either[T any] interface {
	// Get returns the pair as it is.
	Get() (T, error)

	// OrFatal returns the value when it is ok.
	//
	// Otherwise, it calls ftl.Fatal(err) and returns zero value.
	// If ftl has "Helper()" method (like *testing.T), that is called before `Fatal`.
	OrFatal(ftl Fataler) T
}

func To[T any](ok T, ng error) Either[T] {
	if ng == nil {
		return tryOk[T]{ok}
	}
	return tryNg[T]{ng}
}

type tryOk[T any] struct {
	value T
}

func (ok tryOk[T]) Get() (T, error) {
	return ok.value, nil
}

func (ok tryOk[T]) OrFatal(Fataler) T {
	return ok.value
}

type tryNg[T any] struct {
	err error
}

func (ng tryNg[T]) Get() (T, error) {
	return *new(T), ng.err
}

func (ng tryNg[T]) OrFatal(ftl Fataler) T {
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(ng.err)
	return *new(T)
}
