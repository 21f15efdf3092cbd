package schema

import "math"

// Person field names, as they appear in request and response bodies.
const (
	FieldVorname       = "vorname"
	FieldNachname      = "nachname"
	FieldPLZ           = "plz"
	FieldStrasse       = "strasse"
	FieldOrt           = "ort"
	FieldTelefonnummer = "telefonnummer"
	FieldEmail         = "email"
)

// PersonDefinition is the single source of truth for the person body shape.
func PersonDefinition() Definition {
	return Definition{
		Rules: []Rule{
			{Field: FieldVorname, Type: TypeString, Required: true},
			{Field: FieldNachname, Type: TypeString, Required: true},
			// plz is stored in an INTEGER column.
			{Field: FieldPLZ, Type: TypeInteger, Minimum: Bound(math.MinInt32), Maximum: Bound(math.MaxInt32)},
			{Field: FieldStrasse, Type: TypeString},
			{Field: FieldOrt, Type: TypeString},
			{Field: FieldTelefonnummer, Type: TypeString, MinLength: 10},
			{Field: FieldEmail, Type: TypeString, Required: true, Format: "email"},
		},
		AdditionalProperties: false,
	}
}

// PersonSchema compiles PersonDefinition. The definition is static, so a
// compile error is a programming mistake.
func PersonSchema() *Schema {
	s, err := Compile(PersonDefinition())
	if err != nil {
		panic("compile person schema: " + err.Error())
	}
	return s
}
