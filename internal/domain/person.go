package domain

import "errors"

var ErrPersonNotFound = errors.New("person not found")

// PersonFields is the writable part of a person. Create and Update both take
// the full set; an Update with a nil optional field clears that column.
type PersonFields struct {
	Vorname       string
	Nachname      string
	PLZ           *int
	Strasse       *string
	Ort           *string
	Telefonnummer *string
	Email         string
}

type Person struct {
	ID int64
	PersonFields
}
