package domain

// Person is a named individual referenced by movies, either as an actor or as
// a director. Identity is the (FirstName, LastName) pair; two people sharing a
// full name are indistinguishable.
type Person struct {
	ID        int64
	FirstName string
	LastName  string
}
