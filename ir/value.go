package ir

// The plain-value shape exchanged with the parse and serialize boundaries.
// Values are one of: Object, Array, string, float64, bool, nil.
//
// Object is a slice, not a map, because member order is part of document
// semantics and must survive a build/value round trip.

type Member struct {
	Key   string
	Value any
}

type Object []Member

type Array []any

func (o Object) Get(key string) (any, bool) {
	for i := range o {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}
